package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDefaults(t *testing.T) {
	p := BuildPrompt(Profile{})

	assert.Contains(t, p, "Total duration_minutes <= 120.")
	assert.Contains(t, p, "Subjects relevant to General study.")
}

func TestBuildPromptCustomProfile(t *testing.T) {
	p := BuildPrompt(Profile{TargetExam: "JEE", DailyHours: 3})

	assert.Contains(t, p, "Total duration_minutes <= 180.")
	assert.Contains(t, p, "Subjects relevant to JEE.")
}

func TestBuildPromptInvalidHours(t *testing.T) {
	for _, hours := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		p := BuildPrompt(Profile{DailyHours: hours})
		assert.Contains(t, p, "Total duration_minutes <= 120.", "hours=%v", hours)
	}
}

func TestBuildPromptClampsExcessiveHours(t *testing.T) {
	// the plan endpoint is unauthenticated, so daily_hours is untrusted
	for _, hours := range []float64{13, 1000, 1e18} {
		p := BuildPrompt(Profile{DailyHours: hours})
		assert.Contains(t, p, "Total duration_minutes <= 720.", "hours=%v", hours)
	}
}

func TestBuildPromptSchemaClauses(t *testing.T) {
	p := BuildPrompt(Profile{TargetExam: "GATE", DailyHours: 2})

	assert.Contains(t, p, "Return ONLY a valid JSON array")
	assert.Contains(t, p, `"duration_minutes"`)
	assert.Contains(t, p, "3 to 5 items only.")
	assert.Contains(t, p, "return an empty JSON array: []")
}

func TestBuildPromptDeterministic(t *testing.T) {
	prof := Profile{TargetExam: "Placements", DailyHours: 4}
	assert.Equal(t, BuildPrompt(prof), BuildPrompt(prof))
}
