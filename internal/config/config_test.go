package config

import (
	"errors"
	"testing"
	"time"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(env(map[string]string{"SESSION_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected addr %q, got %q", ":8080", cfg.HTTPAddr)
	}
	if cfg.SessionStore != StoreMemory {
		t.Fatalf("expected store %q, got %q", StoreMemory, cfg.SessionStore)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected ttl 24h, got %s", cfg.SessionTTL)
	}
	if cfg.Locale.String() != "en-US" {
		t.Fatalf("expected locale en-US, got %s", cfg.Locale)
	}
	if string(cfg.SessionSecret) != "s3cret" {
		t.Fatalf("expected secret to be loaded, got %q", cfg.SessionSecret)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"HTTP_ADDR":         ":9090",
		"LOG_LEVEL":         "debug",
		"CALCULATOR_LOCALE": "de-DE",
		"SESSION_STORE":     "sqlite",
		"SESSION_DB_PATH":   "/tmp/calc.db",
		"SESSION_SECRET":    "x",
		"SESSION_TTL":       "15m",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPAddr != ":9090" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected addr/level: %q %q", cfg.HTTPAddr, cfg.LogLevel)
	}
	if cfg.Locale.String() != "de-DE" {
		t.Fatalf("expected locale de-DE, got %s", cfg.Locale)
	}
	if cfg.SessionStore != StoreSQLite || cfg.SessionDBPath != "/tmp/calc.db" {
		t.Fatalf("unexpected store settings: %q %q", cfg.SessionStore, cfg.SessionDBPath)
	}
	if cfg.SessionTTL != 15*time.Minute {
		t.Fatalf("expected ttl 15m, got %s", cfg.SessionTTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{name: "missing secret", vars: map[string]string{}},
		{name: "bad ttl", vars: map[string]string{"SESSION_SECRET": "x", "SESSION_TTL": "soon"}},
		{name: "negative ttl", vars: map[string]string{"SESSION_SECRET": "x", "SESSION_TTL": "-1h"}},
		{name: "unknown store", vars: map[string]string{"SESSION_SECRET": "x", "SESSION_STORE": "redis"}},
		{name: "bad locale", vars: map[string]string{"SESSION_SECRET": "x", "CALCULATOR_LOCALE": "not a locale!"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := load(env(tc.vars)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingSecretIsSentinel(t *testing.T) {
	_, err := load(env(nil))
	if !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
