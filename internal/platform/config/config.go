// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RateLimitConfig struct {
	Rate  float64 // requests per second per client IP
	Burst int
}

type AppConfig struct {
	ServiceName string
	Env         string
	LogLevel    string
	HTTP        HTTPConfig
	Mongo       MongoConfig
	JWTSecret   string
	RateLimit   RateLimitConfig
}

// IsProduction reports whether APP_ENV selects the production profile.
// Production refuses to start without Mongo; development falls back to
// in-memory stores.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		Env:         strings.TrimSpace(os.Getenv("APP_ENV")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		Mongo: MongoConfig{
			URI:      strings.TrimSpace(os.Getenv("MONGO_URI")),
			Database: strings.TrimSpace(os.Getenv("MONGO_DB")),
		},
		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		RateLimit: RateLimitConfig{
			Rate:  envFloat("RATE_LIMIT_RPS", 5),
			Burst: envInt("RATE_LIMIT_BURST", 10),
		},
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "moviecatalog"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "moviecatalog"
	}
	if cfg.IsProduction() {
		if cfg.Mongo.URI == "" {
			return AppConfig{}, errors.New("MONGO_URI is required in production")
		}
		if cfg.JWTSecret == "" {
			return AppConfig{}, errors.New("JWT_SECRET is required in production")
		}
	}
	return cfg, nil
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
