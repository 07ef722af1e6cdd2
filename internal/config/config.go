// Package config loads server settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server reads from the environment. A missing
// AI gateway is not an error; image generation is simply disabled.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"dungeondelve.db"`

	// PuzzleMode selects what the three rooms hold: "classic" round-robins
	// riddle/pattern/word, "scavenger" deals scavenger hunts.
	PuzzleMode string `env:"PUZZLE_MODE" envDefault:"classic"`

	// AIGateway is either a full gateway base URL or a bare API token.
	AIGateway    string `env:"AI_GATEWAY"`
	AIGatewayKey string `env:"AI_GATEWAY_API_KEY"`
	ImageModel   string `env:"IMAGE_MODEL" envDefault:"google/imagen-4.0-fast-generate-001"`
	ImageSize    string `env:"IMAGE_SIZE" envDefault:"512x512"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
