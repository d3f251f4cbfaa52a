package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type config struct {
	DBURL         string
	Port          string
	RedisURL      string
	OpenAIKey     string
	OpenAIBaseURL string
	CORSOrigins   []string
}

// loadConfig reads .env (if present) and then the process environment.
// DB_URL is the only required setting.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := config{
		DBURL:         os.Getenv("DB_URL"),
		Port:          envOr("PORT", "3000"),
		RedisURL:      os.Getenv("REDIS_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		CORSOrigins:   splitList(envOr("CORS_ORIGINS", "*")),
	}
	if cfg.DBURL == "" {
		return config{}, errors.New("DB_URL is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
