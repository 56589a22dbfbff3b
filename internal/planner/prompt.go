package planner

import (
	"fmt"
	"math"
	"strings"
)

const (
	defaultDailyHours = 2
	maxDailyHours     = 12 // same ceiling the profile validator enforces
)

// BuildPrompt renders the instruction text for one plan request.
// Deterministic: same profile, same prompt.
func BuildPrompt(p Profile) string {
	hours := p.DailyHours
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = defaultDailyHours
	}
	if hours > maxDailyHours {
		hours = maxDailyHours
	}
	budgetMinutes := int(hours * 60)

	goal := strings.TrimSpace(p.TargetExam)
	if goal == "" {
		goal = "General study"
	}

	var b strings.Builder

	b.WriteString("You are an API that returns ONLY JSON.\n")
	b.WriteString("Return ONLY a valid JSON array. No text, no markdown, no explanation.\n\n")

	b.WriteString("Schema:\n")
	b.WriteString("[\n")
	b.WriteString(`  { "title": string, "subject": string, "duration_minutes": number }` + "\n")
	b.WriteString("]\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- 3 to 5 items only.\n")
	fmt.Fprintf(&b, "- Total duration_minutes <= %d.\n", budgetMinutes)
	fmt.Fprintf(&b, "- Subjects relevant to %s.\n", goal)
	b.WriteString("- Today-focused, practical tasks.\n\n")

	b.WriteString("If you cannot comply, return an empty JSON array: []\n")

	return b.String()
}
