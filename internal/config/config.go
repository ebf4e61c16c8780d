package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const insecureJWTSecret = "secretkey"

type Config struct {
	Port        string
	Store       string // "mongo" or "memory"
	MongoURL    string
	MongoDB     string
	JWTSecret   []byte
	AdminEmail  string
	CORSOrigins []string
	LogLevel    slog.Level

	OpenRouterKey   string
	OpenRouterURL   string
	OpenRouterModel string
	ChatTimeout     time.Duration

	RabbitMQURI string
	OrderQueue  string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Could not read .env file", "error", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		Store:           strings.ToLower(getEnv("STORE", "mongo")),
		MongoURL:        os.Getenv("MONGO_URL"),
		MongoDB:         getEnv("MONGO_DB", "megamart"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@megamart.com"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		OpenRouterKey:   os.Getenv("OPENROUTER_KEY"),
		OpenRouterURL:   getEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel: getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		ChatTimeout:     getDuration("CHAT_TIMEOUT", 30*time.Second),
		RabbitMQURI:     os.Getenv("RABBITMQ_URI"),
		OrderQueue:      getEnv("ORDER_QUEUE", "orders"),
		LogLevel:        parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Warn("JWT_SECRET environment variable not set. Falling back to an insecure default. PLEASE SET JWT_SECRET IN PRODUCTION!")
		secret = insecureJWTSecret
	}
	cfg.JWTSecret = []byte(secret)

	switch cfg.Store {
	case "mongo":
		if cfg.MongoURL == "" {
			return nil, errors.New("MONGO_URL is missing")
		}
	case "memory":
		slog.Warn("Using the in-memory store. Data is lost on restart.")
	default:
		return nil, errors.New("STORE must be mongo or memory, got " + strconv.Quote(cfg.Store))
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = "5000"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
