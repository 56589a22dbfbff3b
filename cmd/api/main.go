package main

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"studyplan-backend/internal/analytics"
	"studyplan-backend/internal/auth"
	"studyplan-backend/internal/config"
	"studyplan-backend/internal/db"
	"studyplan-backend/internal/logging"
	"studyplan-backend/internal/planner"
	"studyplan-backend/internal/profiles"
	"studyplan-backend/internal/streaks"
	"studyplan-backend/internal/tasks"
	"studyplan-backend/internal/topics"
)

const maxConns = 512

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.New()
	if err != nil {
		log.Fatal("logger init failed:", err)
	}
	defer logger.Sync()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		logger.Fatal("failed to connect DB", zap.Error(err))
	}
	defer database.Close()

	logger.Info("connected to PostgreSQL")

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		logger.Warn("JWT_SECRET is not set, signing tokens with an insecure development secret")
		secret = []byte("dev-secret-change-me")
	}
	authMW := auth.New(secret)

	aiClient := planner.NewClient(planner.ClientConfig{
		APIKey:        cfg.AIKey,
		BaseURL:       cfg.AIBaseURL,
		Model:         cfg.AIModel,
		Timeout:       cfg.AITimeout,
		MaxConcurrent: cfg.AIMaxConcurrent,
		JSONMode:      cfg.AIJSONMode,
	})

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("POST /auth/logout", authMW.Wrap(auth.LogoutHandler()))
	mux.HandleFunc("GET /auth/me", authMW.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("DELETE /auth/account", authMW.Wrap(auth.DeleteAccountHandler(database)))

	// ----- PROFILE / STUDY PLAN -----
	mux.HandleFunc("GET /profile", authMW.Wrap(profiles.GetProfileHandler(database)))
	mux.HandleFunc("PUT /profile", authMW.Wrap(profiles.UpdateProfileHandler(database)))
	mux.HandleFunc("POST /profile/plan", authMW.Wrap(profiles.CreatePlanHandler(database)))
	mux.HandleFunc("GET /profile/plan", authMW.Wrap(profiles.GetPlanHandler(database)))

	// ----- AI PLAN -----
	// The handler owns its method gate (405 contract), so no verb here.
	mux.HandleFunc("/ai/plan", planner.PlanHandler(aiClient, logger))

	// ----- TASKS -----
	mux.HandleFunc("GET /tasks", authMW.Wrap(tasks.ListTasksHandler(database)))
	mux.HandleFunc("POST /tasks", authMW.Wrap(tasks.CreateTaskHandler(database)))
	mux.HandleFunc("POST /tasks/accept", authMW.Wrap(tasks.AcceptPlanHandler(database)))
	mux.HandleFunc("PATCH /tasks/{id}", authMW.Wrap(tasks.CompleteTaskHandler(database, logger)))
	mux.HandleFunc("DELETE /tasks/{id}", authMW.Wrap(tasks.DeleteTaskHandler(database)))

	// ----- STREAK -----
	mux.HandleFunc("GET /streak", authMW.Wrap(streaks.GetStreakHandler(database)))

	// ----- TOPIC BANK -----
	mux.HandleFunc("GET /topics", authMW.Wrap(topics.ListTopicsHandler(database)))
	mux.HandleFunc("POST /topics", authMW.WrapAdmin(database, topics.CreateTopicHandler(database)))
	mux.HandleFunc("DELETE /topics/{id}", authMW.WrapAdmin(database, topics.DeleteTopicHandler(database)))

	// ----- ANALYTICS -----
	mux.HandleFunc("POST /analytics/app-opened", authMW.Wrap(analytics.AppOpenedHandler(database)))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Platform", "X-App-Version", "X-Session-Id"},
		AllowCredentials: true,
	})
	handler := c.Handler(mux)

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		logger.Fatal("listen failed", zap.Error(err))
	}
	ln = netutil.LimitListener(ln, maxConns)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * cfg.AITimeout,
		IdleTimeout:       90 * time.Second,
	}

	logger.Info("API server is running", zap.String("port", cfg.Port))
	if err := srv.Serve(ln); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
