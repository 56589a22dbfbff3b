package tasks

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"studyplan-backend/internal/analytics"
	"studyplan-backend/internal/auth"
	"studyplan-backend/internal/planner"
	"studyplan-backend/internal/streaks"
)

const dayFormat = "2006-01-02"

func requestDate(r *http.Request) string {
	d := strings.TrimSpace(r.URL.Query().Get("date"))
	if _, err := time.Parse(dayFormat, d); err != nil {
		return time.Now().UTC().Format(dayFormat)
	}
	return d
}

// GET /tasks?date=YYYY-MM-DD (default: today)
func ListTasksHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		day := requestDate(r)

		rows, err := dbx.Query(`
			SELECT id, title, COALESCE(subject, ''), duration_minutes, done,
			       to_char(plan_date, 'YYYY-MM-DD'), created_at
			FROM tasks
			WHERE user_id = $1 AND plan_date = $2::date
			ORDER BY id
		`, uid, day)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Task{}
		for rows.Next() {
			var t Task
			if err := rows.Scan(&t.ID, &t.Title, &t.Subject, &t.DurationMinutes,
				&t.Done, &t.PlanDate, &t.CreatedAt); err != nil {
				http.Error(w, "scan error", http.StatusInternalServerError)
				return
			}
			result = append(result, t)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// POST /tasks — one manually added task
func CreateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Title           string `json:"title"`
			Subject         string `json:"subject"`
			DurationMinutes int    `json:"duration_minutes"`
			Date            string `json:"date"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		if body.DurationMinutes < 0 {
			http.Error(w, "duration_minutes must be >= 0", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse(dayFormat, body.Date); err != nil {
			body.Date = time.Now().UTC().Format(dayFormat)
		}

		var t Task
		t.Title = body.Title
		t.Subject = strings.TrimSpace(body.Subject)
		t.DurationMinutes = body.DurationMinutes
		t.PlanDate = body.Date

		err := dbx.QueryRow(`
			INSERT INTO tasks (user_id, title, subject, duration_minutes, plan_date)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5::date)
			RETURNING id, created_at
		`, uid, t.Title, t.Subject, t.DurationMinutes, t.PlanDate).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// POST /tasks/accept — persist the drafts a client got from /ai/plan
func AcceptPlanHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Date   string              `json:"date"`
			Drafts []planner.TaskDraft `json:"tasks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if len(body.Drafts) == 0 {
			http.Error(w, "tasks required", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse(dayFormat, body.Date); err != nil {
			body.Date = time.Now().UTC().Format(dayFormat)
		}

		titles := make([]string, 0, len(body.Drafts))
		subjects := make([]string, 0, len(body.Drafts))
		durations := make([]int64, 0, len(body.Drafts))
		total := 0
		for _, d := range body.Drafts {
			if strings.TrimSpace(d.Title) == "" || d.DurationMinutes < 0 {
				http.Error(w, "invalid task in plan", http.StatusBadRequest)
				return
			}
			titles = append(titles, strings.TrimSpace(d.Title))
			subjects = append(subjects, d.Subject)
			durations = append(durations, int64(d.DurationMinutes))
			total += d.DurationMinutes
		}

		_, err := dbx.Exec(`
			INSERT INTO tasks (user_id, plan_date, title, subject, duration_minutes)
			SELECT $1, $2::date, t.title, NULLIF(t.subject, ''), t.duration
			FROM unnest($3::text[], $4::text[], $5::int[]) AS t(title, subject, duration)
		`, uid, body.Date, pq.Array(titles), pq.Array(subjects), pq.Array(durations))
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		// analytics: counts only, never task text
		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			props := map[string]any{
				"task_count":    len(body.Drafts),
				"total_minutes": total,
				"plan_date":     body.Date,
			}
			_ = analytics.Log(r.Context(), dbx, env, "plan_generated", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":    true,
			"count": len(body.Drafts),
			"date":  body.Date,
		})
	}
}

// PATCH /tasks/{id} — toggle done; finishing the last open task of the day
// bumps the streak.
func CompleteTaskHandler(dbx *sql.DB, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "bad task id", http.StatusBadRequest)
			return
		}

		var body struct {
			Done bool `json:"done"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var day string
		err = dbx.QueryRow(`
			UPDATE tasks
			SET done = $1
			WHERE id = $2 AND user_id = $3
			RETURNING to_char(plan_date, 'YYYY-MM-DD')
		`, body.Done, id, uid).Scan(&day)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		resp := map[string]any{"ok": true, "done": body.Done}

		if body.Done {
			env := analytics.FromRequest(r)
			env.UserID = uid
			_ = analytics.Log(r.Context(), dbx, env, "task_completed", map[string]any{
				"task_id":   id,
				"plan_date": day,
			}, analytics.SourceEventKeyFromRequest(r))

			var open int
			if err := dbx.QueryRow(`
				SELECT COUNT(*) FROM tasks
				WHERE user_id = $1 AND plan_date = $2::date AND done = FALSE
			`, uid, day).Scan(&open); err == nil && open == 0 {
				s, err := streaks.Extend(r.Context(), dbx, uid, day)
				if err != nil {
					logger.Warn("streak update failed", zap.Int("user_id", uid), zap.Error(err))
				} else {
					resp["streak"] = s
					_ = analytics.Log(r.Context(), dbx, env, "streak_extended", map[string]any{
						"current": s.Current,
						"longest": s.Longest,
					}, analytics.SourceEventKeyFromRequest(r))
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// DELETE /tasks/{id}
func DeleteTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "bad task id", http.StatusBadRequest)
			return
		}

		res, err := dbx.Exec(`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
