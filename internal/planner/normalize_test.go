package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBareArray(t *testing.T) {
	res := Normalize(`[{"title":"A","subject":"S","duration_minutes":30}]`)
	require.True(t, res.OK)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, TaskDraft{Title: "A", Subject: "S", DurationMinutes: 30}, res.Tasks[0])
}

func TestNormalizeWrapperKey(t *testing.T) {
	res := Normalize(`{"tasks":[{"title":"A","subject":"S","duration_minutes":30}]}`)
	require.True(t, res.OK)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, TaskDraft{Title: "A", Subject: "S", DurationMinutes: 30}, res.Tasks[0])
}

func TestNormalizeOtherWrapperKey(t *testing.T) {
	// json_object mode sometimes invents its own key; a single list-valued
	// field still counts.
	res := Normalize(`{"plan":[{"title":"A","subject":"","duration_minutes":10}]}`)
	require.True(t, res.OK)
	assert.Equal(t, "A", res.Tasks[0].Title)
}

func TestNormalizeAmbiguousWrapper(t *testing.T) {
	res := Normalize(`{"a":[{"title":"A","duration_minutes":1}],"b":[{"title":"B","duration_minutes":2}]}`)
	assert.False(t, res.OK)
}

func TestNormalizeFencedJSON(t *testing.T) {
	content := `[{"title":"A","subject":"S","duration_minutes":30}]`
	fenced := "```json\n" + content + "\n```"

	plain := Normalize(content)
	stripped := Normalize(fenced)

	require.True(t, plain.OK)
	require.True(t, stripped.OK)
	assert.Equal(t, plain.Tasks, stripped.Tasks)
}

func TestNormalizeFenceWithoutTag(t *testing.T) {
	res := Normalize("```\n[{\"title\":\"A\",\"duration_minutes\":5}]\n```")
	require.True(t, res.OK)
	assert.Equal(t, "A", res.Tasks[0].Title)
}

func TestNormalizeJSONInProse(t *testing.T) {
	res := Normalize(`Here is your study plan for today:

[{"title":"Revise graphs","subject":"DSA","duration_minutes":45}]

Good luck!`)
	require.True(t, res.OK)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Revise graphs", res.Tasks[0].Title)
}

func TestNormalizeGarbage(t *testing.T) {
	assert.False(t, Normalize("Sorry, I cannot help with that.").OK)
}

func TestNormalizeTotality(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  ",
		"\x00\xff\xfe garbage bytes",
		"[",
		"]",
		`[{"title": "A"`,
		`{"title":}`,
		"```json```",
		"null",
		"42",
		`"just a string"`,
		`{"note":"no list here"}`,
		`["a","b","c"]`,
		`[1,2,3]`,
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			res := Normalize(in)
			assert.False(t, res.OK, "input %q should normalize to Empty", in)
		})
	}
}

func TestNormalizeEmptyList(t *testing.T) {
	assert.False(t, Normalize("[]").OK)
	assert.False(t, Normalize(`{"tasks":[]}`).OK)
}

func TestNormalizeAllOrNothing(t *testing.T) {
	// one bad element poisons the whole candidate
	cases := map[string]string{
		"missing title":    `[{"title":"A","duration_minutes":30},{"subject":"S","duration_minutes":10}]`,
		"empty title":      `[{"title":"  ","duration_minutes":30}]`,
		"missing duration": `[{"title":"A","subject":"S"}]`,
		"string duration":  `[{"title":"A","duration_minutes":"thirty"}]`,
		"negative":         `[{"title":"A","duration_minutes":-5}]`,
		"fractional":       `[{"title":"A","duration_minutes":30.5}]`,
		"overflow":         `[{"title":"A","subject":"S","duration_minutes":1e19}]`,
		"above int32":      `[{"title":"A","duration_minutes":2147483648}]`,
		"non-object":       `[{"title":"A","duration_minutes":30},"extra"]`,
	}
	for name, in := range cases {
		res := Normalize(in)
		assert.False(t, res.OK, name)
		assert.Empty(t, res.Tasks, name)
	}
}

func TestNormalizeIntegralFloatDuration(t *testing.T) {
	res := Normalize(`[{"title":"A","duration_minutes":30.0}]`)
	require.True(t, res.OK)
	assert.Equal(t, 30, res.Tasks[0].DurationMinutes)
}

func TestNormalizeMissingSubjectDefaultsEmpty(t *testing.T) {
	res := Normalize(`[{"title":"A","duration_minutes":15}]`)
	require.True(t, res.OK)
	assert.Equal(t, "", res.Tasks[0].Subject)
}

func TestNormalizeZeroDuration(t *testing.T) {
	res := Normalize(`[{"title":"Flashcards","duration_minutes":0}]`)
	require.True(t, res.OK)
	assert.Equal(t, 0, res.Tasks[0].DurationMinutes)
}

func TestNormalizeRoundTrip(t *testing.T) {
	res := Normalize(`[{"title":"A","subject":"S","duration_minutes":30},{"title":"B","subject":"","duration_minutes":45}]`)
	require.True(t, res.OK)

	b, err := json.Marshal(res.Tasks)
	require.NoError(t, err)

	again := Normalize(string(b))
	require.True(t, again.OK)
	assert.Equal(t, res.Tasks, again.Tasks)
}
