// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the API service.
type Config struct {
	ListenAddr string

	// Signing material. The two secrets are distinct on purpose: a leaked
	// access secret does not compromise refresh tokens and either can be
	// rotated independently.
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	TokenIssuer        string

	// PostgresDSN selects the persistent stores; empty means in-memory.
	PostgresDSN string
	// SeedDemo populates the in-memory stores with demo fixtures.
	SeedDemo bool

	RateLimitPerSec int
	RateLimitBurst  int
	MaxBodyBytes    int64
}

// Load reads configuration from the environment, falling back to defaults.
// The signing secrets have no default and must be set.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:         envOr("LISTEN_ADDR", ":8080"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     envDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    envDuration("REFRESH_TOKEN_TTL", 14*24*time.Hour),
		TokenIssuer:        envOr("TOKEN_ISSUER", "projecthub"),
		PostgresDSN:        os.Getenv("PG_DSN"),
		SeedDemo:           envBool("SEED_DEMO", false),
		RateLimitPerSec:    envInt("RATE_LIMIT_PER_SEC", 50),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 100),
		MaxBodyBytes:       int64(envInt("MAX_BODY_BYTES", 1<<20)),
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return Config{}, errors.New("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
