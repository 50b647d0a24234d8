// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string `env:"ADDR" envDefault:":8080"`
	DatabaseURL  string `env:"DATABASE_URL"` // empty selects the in-memory store
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	PickTimerSec int    `env:"PICK_TIMER_SEC" envDefault:"60"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
