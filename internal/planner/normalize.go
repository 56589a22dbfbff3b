package planner

import (
	"encoding/json"
	"math"
	"strings"
)

// wrapperKey is the object field some prompt conventions put the task list
// under instead of a bare top-level array (json_object response mode tends to
// produce this shape).
const wrapperKey = "tasks"

// Normalize turns raw completion-service output into a Result. It is total:
// any input (clean JSON, fenced JSON, JSON buried in prose, garbage, an empty
// string) produces Ok or Empty, never a panic and never a partial list.
func Normalize(raw string) Result {
	text := stripFences(strings.TrimSpace(raw))

	candidate, ok := extractList(text)
	if !ok {
		return Empty()
	}

	drafts, ok := validateDrafts(candidate)
	if !ok {
		return Empty()
	}

	return Ok(drafts)
}

// stripFences removes a surrounding ``` / ```json code fence.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractList finds the candidate task list: a bare array, an array under a
// wrapper key, or, when strict parsing fails, the greedy first-'[' to
// last-']' span of the text.
func extractList(text string) ([]json.RawMessage, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(text), &arr); err == nil {
		return arr, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		if raw, exists := obj[wrapperKey]; exists {
			if err := json.Unmarshal(raw, &arr); err == nil {
				return arr, true
			}
		}
		// any object with exactly one list-valued field counts as a wrapper
		var found []json.RawMessage
		lists := 0
		for _, raw := range obj {
			var l []json.RawMessage
			if err := json.Unmarshal(raw, &l); err == nil {
				found = l
				lists++
			}
		}
		if lists == 1 {
			return found, true
		}
		return nil, false
	}

	// Parse failed entirely: scan for an array embedded in prose.
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &arr); err == nil {
		return arr, true
	}
	return nil, false
}

type draftWire struct {
	Title           *string      `json:"title"`
	Subject         *string      `json:"subject"`
	DurationMinutes *json.Number `json:"duration_minutes"`
}

// validateDrafts converts the candidate list all-or-nothing: one malformed
// element (missing title, non-numeric or negative duration) rejects the whole
// candidate, so callers never see a partially valid plan. An empty list is
// rejected too.
func validateDrafts(candidate []json.RawMessage) ([]TaskDraft, bool) {
	if len(candidate) == 0 {
		return nil, false
	}

	drafts := make([]TaskDraft, 0, len(candidate))
	for _, raw := range candidate {
		var w draftWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, false
		}

		if w.Title == nil || strings.TrimSpace(*w.Title) == "" {
			return nil, false
		}
		if w.DurationMinutes == nil {
			return nil, false
		}

		// upper bound keeps int(f) from overflowing
		f, err := w.DurationMinutes.Float64()
		if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
			return nil, false
		}

		subject := ""
		if w.Subject != nil {
			subject = *w.Subject
		}

		drafts = append(drafts, TaskDraft{
			Title:           strings.TrimSpace(*w.Title),
			Subject:         subject,
			DurationMinutes: int(f),
		})
	}

	return drafts, true
}
