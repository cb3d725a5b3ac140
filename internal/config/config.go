// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds the serve command's configuration.
type Server struct {
	// Addr is the host:port the HTTP API binds to.
	Addr string `env:"FRAMELIGHT_ADDR" envDefault:":8080"`

	// RedisURL enables the Redis snapshot store when non-empty, e.g.
	// "redis://localhost:6379/0". Empty keeps sessions in memory.
	RedisURL string `env:"FRAMELIGHT_REDIS_URL"`

	// SessionTTL bounds how long idle sessions are retained. Zero keeps
	// them until deleted.
	SessionTTL time.Duration `env:"FRAMELIGHT_SESSION_TTL" envDefault:"0"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"FRAMELIGHT_LOG_LEVEL" envDefault:"info"`

	// Metrics exposes Prometheus collectors at /metrics when true.
	Metrics bool `env:"FRAMELIGHT_METRICS" envDefault:"true"`
}

// FromEnv loads the server configuration from the environment.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
