package tasks

import "time"

type Task struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	Done            bool      `json:"done"`
	PlanDate        string    `json:"plan_date"` // YYYY-MM-DD
	CreatedAt       time.Time `json:"created_at"`
}
