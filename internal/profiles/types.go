package profiles

import "time"

type Profile struct {
	UserID     int       `json:"user_id"`
	FullName   string    `json:"full_name"`
	Username   string    `json:"username"`
	TargetExam string    `json:"target_exam"`
	DailyHours float64   `json:"daily_hours"`
	ExamDate   *string   `json:"exam_date,omitempty"` // YYYY-MM-DD
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

type StudyPlan struct {
	ID        int    `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
