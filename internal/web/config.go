package web

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultAddr is the listen address used when nothing else is configured.
const DefaultAddr = "127.0.0.1:8501"

// Config holds the HTTP server settings.
type Config struct {
	HTTPAddr string `env:"PRESALES_HTTP_ADDR" envDefault:"127.0.0.1:8501"`
}

// LoadConfig parses Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
