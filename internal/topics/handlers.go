package topics

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studyplan-backend/internal/auth"
)

type Topic struct {
	ID         int       `json:"id"`
	Subject    string    `json:"subject"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

func validDifficulty(d string) bool {
	switch d {
	case "easy", "medium", "hard":
		return true
	}
	return false
}

// GET /topics — shared bank, newest first, any signed-in user
func ListTopicsHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := dbx.Query(`
			SELECT id, subject, topic, difficulty, created_at
			FROM topics
			ORDER BY created_at DESC
		`)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Topic{}
		for rows.Next() {
			var t Topic
			if err := rows.Scan(&t.ID, &t.Subject, &t.Topic, &t.Difficulty, &t.CreatedAt); err != nil {
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

// POST /topics — admin only (wrapped by auth.Middleware.WrapAdmin)
func CreateTopicHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Subject    string `json:"subject"`
			Topic      string `json:"topic"`
			Difficulty string `json:"difficulty"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		body.Subject = strings.TrimSpace(body.Subject)
		body.Topic = strings.TrimSpace(body.Topic)
		if body.Subject == "" || body.Topic == "" {
			http.Error(w, "subject and topic required", http.StatusBadRequest)
			return
		}
		if body.Difficulty == "" {
			body.Difficulty = "easy"
		}
		if !validDifficulty(body.Difficulty) {
			http.Error(w, "difficulty must be easy|medium|hard", http.StatusBadRequest)
			return
		}

		var t Topic
		t.Subject = body.Subject
		t.Topic = body.Topic
		t.Difficulty = body.Difficulty

		err := dbx.QueryRow(`
			INSERT INTO topics (subject, topic, difficulty)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, t.Subject, t.Topic, t.Difficulty).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// DELETE /topics/{id} — admin only
func DeleteTopicHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "bad topic id", http.StatusBadRequest)
			return
		}

		res, err := dbx.Exec(`DELETE FROM topics WHERE id = $1`, id)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "topic not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
