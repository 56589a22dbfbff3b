package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// Completion service (any OpenAI-compatible chat endpoint).
	AIKey           string
	AIModel         string
	AIBaseURL       string
	AITimeout       time.Duration
	AIMaxConcurrent int
	AIJSONMode      bool
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		dbPort = 5432 // fallback
	}

	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "llama3-70b-8192"
	}

	baseURL := os.Getenv("AI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}

	timeout := 30 * time.Second
	if s := os.Getenv("AI_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	maxConc := 8
	if s := os.Getenv("AI_MAX_CONCURRENT"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			maxConc = n
		}
	}

	return &Config{
		Port: port,

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AIKey:           os.Getenv("AI_API_KEY"),
		AIModel:         model,
		AIBaseURL:       baseURL,
		AITimeout:       timeout,
		AIMaxConcurrent: maxConc,
		AIJSONMode:      os.Getenv("AI_JSON_MODE") != "off",
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
