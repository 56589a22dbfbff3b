package profiles

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"studyplan-backend/internal/auth"
)

var validate = validator.New()

func GetProfileHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var p Profile
		var examDate sql.NullString
		err := dbx.QueryRow(`
			SELECT user_id, full_name, username,
			       COALESCE(target_exam, ''), daily_hours,
			       to_char(exam_date, 'YYYY-MM-DD'),
			       COALESCE(role, 'user'), created_at
			FROM profiles
			WHERE user_id = $1
		`, uid).Scan(&p.UserID, &p.FullName, &p.Username, &p.TargetExam,
			&p.DailyHours, &examDate, &p.Role, &p.CreatedAt)
		if err != nil {
			http.Error(w, "no profile", http.StatusNotFound)
			return
		}
		if examDate.Valid {
			p.ExamDate = &examDate.String
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p)
	}
}

type updateRequest struct {
	FullName   string  `json:"full_name" validate:"required"`
	TargetExam string  `json:"target_exam"`
	DailyHours float64 `json:"daily_hours" validate:"required,gte=1,lte=12"`
	ExamDate   string  `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProfileHandler covers onboarding edits. role is deliberately not
// writable here.
func UpdateProfileHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body updateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(body); err != nil {
			http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}

		res, err := dbx.Exec(`
			UPDATE profiles
			SET full_name = $1,
			    target_exam = NULLIF($2, ''),
			    daily_hours = $3,
			    exam_date = NULLIF($4, '')::date
			WHERE user_id = $5
		`, body.FullName, strings.TrimSpace(body.TargetExam), body.DailyHours, body.ExamDate, uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "no profile", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

type createPlanRequest struct {
	EndDate string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// CreatePlanHandler finishes onboarding: a study plan runs from today until
// the exam date.
func CreatePlanHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body createPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(body); err != nil {
			http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now().UTC().Format("2006-01-02")

		var plan StudyPlan
		err := dbx.QueryRow(`
			INSERT INTO study_plans (user_id, start_date, end_date)
			VALUES ($1, $2::date, $3::date)
			RETURNING id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD')
		`, uid, start, body.EndDate).Scan(&plan.ID, &plan.StartDate, &plan.EndDate)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plan)
	}
}

func GetPlanHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var plan StudyPlan
		err := dbx.QueryRow(`
			SELECT id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD')
			FROM study_plans
			WHERE user_id = $1
			ORDER BY id DESC LIMIT 1
		`, uid).Scan(&plan.ID, &plan.StartDate, &plan.EndDate)
		if err != nil {
			http.Error(w, "no plan", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plan)
	}
}
