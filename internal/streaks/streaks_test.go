package streaks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceFirstCompletion(t *testing.T) {
	s := Advance(0, 0, "", "2026-08-29")

	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 1, s.Longest)
	assert.Equal(t, "2026-08-29", s.LastCompletedDate)
}

func TestAdvanceConsecutiveDay(t *testing.T) {
	s := Advance(3, 5, "2026-08-28", "2026-08-29")

	assert.Equal(t, 4, s.Current)
	assert.Equal(t, 5, s.Longest)
}

func TestAdvanceNewLongest(t *testing.T) {
	s := Advance(5, 5, "2026-08-28", "2026-08-29")

	assert.Equal(t, 6, s.Current)
	assert.Equal(t, 6, s.Longest)
}

func TestAdvanceGapResets(t *testing.T) {
	s := Advance(7, 10, "2026-08-25", "2026-08-29")

	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 10, s.Longest)
}

func TestAdvanceSameDayNoOp(t *testing.T) {
	s := Advance(4, 6, "2026-08-29", "2026-08-29")

	assert.Equal(t, 4, s.Current)
	assert.Equal(t, 6, s.Longest)
	assert.Equal(t, "2026-08-29", s.LastCompletedDate)
}

func TestAdvanceMonthBoundary(t *testing.T) {
	s := Advance(2, 2, "2026-08-31", "2026-09-01")

	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Longest)
}

func TestAdvanceBadDates(t *testing.T) {
	// unparsable today leaves the streak untouched
	s := Advance(4, 6, "2026-08-28", "not-a-date")
	assert.Equal(t, 4, s.Current)
	assert.Equal(t, "2026-08-28", s.LastCompletedDate)

	// unparsable last date starts over
	s = Advance(4, 6, "garbage", "2026-08-29")
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 6, s.Longest)
}
