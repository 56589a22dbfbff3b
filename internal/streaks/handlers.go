package streaks

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"studyplan-backend/internal/auth"
)

func GetStreakHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var s Streak
		var last sql.NullString
		err := dbx.QueryRow(`
			SELECT current, longest, to_char(last_completed_date, 'YYYY-MM-DD')
			FROM streaks
			WHERE user_id = $1
		`, uid).Scan(&s.Current, &s.Longest, &last)
		if err != nil && err != sql.ErrNoRows {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if last.Valid {
			s.LastCompletedDate = last.String
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}
