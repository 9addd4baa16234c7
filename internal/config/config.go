package config

import (
	"fmt"
	"os"
)

// Config is the process configuration, read from the environment
// (optionally seeded from a .env file by the caller).
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	WebhookAPIKey string
	UploadDir     string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		WebhookAPIKey: os.Getenv("WEBHOOK_API_KEY"),
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.WebhookAPIKey == "" {
		return nil, fmt.Errorf("WEBHOOK_API_KEY is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
