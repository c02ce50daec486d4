// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/text/language"

	"calculator-widget/internal/calculator"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// ErrMissingSecret is returned when SESSION_SECRET is not set.
var ErrMissingSecret = errors.New("SESSION_SECRET is required")

type Config struct {
	HTTPAddr      string
	LogLevel      string
	Locale        language.Tag
	SessionStore  string
	SessionDBPath string
	SessionSecret []byte
	SessionTTL    time.Duration
}

// Load builds a Config from environment variables, applying defaults for
// everything except SESSION_SECRET.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPAddr:      valueOr(getenv("HTTP_ADDR"), ":8080"),
		LogLevel:      getenv("LOG_LEVEL"),
		SessionStore:  valueOr(getenv("SESSION_STORE"), StoreMemory),
		SessionDBPath: valueOr(getenv("SESSION_DB_PATH"), "calculator.db"),
		SessionSecret: []byte(getenv("SESSION_SECRET")),
		SessionTTL:    24 * time.Hour,
	}

	locale, err := calculator.ParseLocale(getenv("CALCULATOR_LOCALE"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CALCULATOR_LOCALE: %w", err)
	}
	cfg.Locale = locale

	if raw := getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
		}
		cfg.SessionTTL = ttl
	}

	switch cfg.SessionStore {
	case StoreMemory, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	if len(cfg.SessionSecret) == 0 {
		return Config{}, ErrMissingSecret
	}

	return cfg, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
