package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type RegisterRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	FullName   string  `json:"full_name" validate:"required"`
	Username   string  `json:"username" validate:"required,min=3"`
	TargetExam string  `json:"target_exam"`
	DailyHours float64 `json:"daily_hours" validate:"omitempty,gte=1,lte=12"`
	ExamDate   string  `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	UserID int    `json:"user_id"`
	Token  string `json:"token"`
}

// RegisterHandler creates the user plus their profile row in one transaction,
// mirroring the signup flow where the profile is filled during account creation.
func RegisterHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(body); err != nil {
			http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}

		tx, err := dbx.Begin()
		if err != nil {
			http.Error(w, "db begin failed", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		var id int
		err = tx.QueryRow(`
			INSERT INTO users (email, password)
			VALUES ($1, $2)
			RETURNING id
		`, strings.ToLower(strings.TrimSpace(body.Email)), string(hash)).Scan(&id)
		if err != nil {
			http.Error(w, "email already registered", http.StatusBadRequest)
			return
		}

		hours := body.DailyHours
		if hours <= 0 {
			hours = 2
		}

		_, err = tx.Exec(`
			INSERT INTO profiles (user_id, full_name, username, target_exam, daily_hours, exam_date, role)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, '')::date, 'user')
		`, id, body.FullName, body.Username, strings.TrimSpace(body.TargetExam), hours, body.ExamDate)
		if err != nil {
			http.Error(w, "username already taken", http.StatusBadRequest)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "db commit failed", http.StatusInternalServerError)
			return
		}

		token, err := GenerateToken(secret, id)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AuthResponse{UserID: id, Token: token})
	}
}

func LoginHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(body); err != nil {
			http.Error(w, "validation failed", http.StatusBadRequest)
			return
		}

		var id int
		var hash string
		err := dbx.QueryRow(`
			SELECT id, password FROM users WHERE email = $1
		`, strings.ToLower(strings.TrimSpace(body.Email))).Scan(&id, &hash)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := GenerateToken(secret, id)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AuthResponse{UserID: id, Token: token})
	}
}

func MeHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var email, role string
		err := dbx.QueryRow(`
			SELECT u.email, COALESCE(p.role, 'user')
			FROM users u
			LEFT JOIN profiles p ON p.user_id = u.id
			WHERE u.id = $1
		`, uid).Scan(&email, &role)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": uid,
			"email":   email,
			"role":    role,
		})
	}
}

func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// JWT is stateless; the client just drops the token.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func DeleteAccountHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tx, err := dbx.Begin()
		if err != nil {
			http.Error(w, "db begin failed", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM tasks WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete tasks failed", http.StatusInternalServerError)
			return
		}
		if _, err := tx.Exec(`DELETE FROM streaks WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete streaks failed", http.StatusInternalServerError)
			return
		}
		if _, err := tx.Exec(`DELETE FROM study_plans WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete study_plans failed", http.StatusInternalServerError)
			return
		}
		if _, err := tx.Exec(`DELETE FROM analytics_events WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete analytics_events failed", http.StatusInternalServerError)
			return
		}
		if _, err := tx.Exec(`DELETE FROM profiles WHERE user_id = $1`, uid); err != nil {
			http.Error(w, "delete profile failed", http.StatusInternalServerError)
			return
		}
		if _, err := tx.Exec(`DELETE FROM users WHERE id = $1`, uid); err != nil {
			http.Error(w, "delete user failed", http.StatusInternalServerError)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "db commit failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
