package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:               "8082",
		RateLimitPerMinute: 60,
		DataBackend:        "memory",
		SQLiteDBPath:       "./data/savings.db",
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		TokenTTL:           12 * time.Hour,
		BcryptCost:         10,
		SyncBatchSize:      10,
		SyncInterval:       30 * time.Second,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "99999" }, "must be between"},
		{"bad backend", func(c *Config) { c.DataBackend = "mongo" }, "invalid data backend"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET must be set"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "too short"},
		{"tiny ttl", func(c *Config) { c.TokenTTL = time.Second }, "token TTL"},
		{"bad bcrypt cost", func(c *Config) { c.BcryptCost = 99 }, "bcrypt cost"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name"},
		{"zero batch", func(c *Config) { c.SyncBatchSize = 0 }, "sync batch size"},
		{"tiny interval", func(c *Config) { c.SyncInterval = time.Millisecond }, "sync interval"},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, "rate limit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Fatalf("error %q does not mention %q", err, tc.message)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.JWTSecret = ""
	cfg.SyncBatchSize = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"invalid port", "JWT_SECRET", "sync batch size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("combined error missing %q: %v", want, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8082" {
		t.Fatalf("default port = %s", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("default backend = %s", cfg.DataBackend)
	}
	if cfg.SyncInterval != 30*time.Second {
		t.Fatalf("default sync interval = %v", cfg.SyncInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("SYNC_BATCH_SIZE", "25")
	cfg := Load()
	if cfg.Port != "9000" || cfg.DataBackend != "memory" || cfg.TokenTTL != time.Hour || cfg.SyncBatchSize != 25 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}
