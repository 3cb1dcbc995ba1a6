// Package config loads pipeline configuration from the environment, with
// a .env file honored when present.
package config

import (
	"fmt"

	envloader "github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Tour is one competitive scope with its archive's active years, probed
// in the listed (ascending) order.
type Tour struct {
	Name  string
	Years []int
}

// Config holds the environment-driven settings of one pipeline run.
type Config struct {
	SourceBucket string `env:"VCT_SOURCE_BUCKET" envDefault:"vcthackathon-data"`
	DestBucket   string `env:"VCT_DEST_BUCKET" envDefault:"esports-digital-assistant-data"`

	// Workers bounds concurrent match processing within a tour.
	Workers int `env:"VCT_WORKERS" envDefault:"4"`
	// MatchCap stops a tour after this many processed matches; 0 = all.
	MatchCap int `env:"VCT_MATCH_CAP" envDefault:"100"`
	// EmitMetadata controls the optional player_metadata artifact.
	EmitMetadata bool `env:"VCT_EMIT_METADATA" envDefault:"true"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Tours []Tour `env:"-"`
}

// Load reads the environment (and .env, when present) and fills in the
// default tour table.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	if err := envloader.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	cfg.Tours = DefaultTours()

	logger.Info().
		Str("source_bucket", cfg.SourceBucket).
		Str("dest_bucket", cfg.DestBucket).
		Int("workers", cfg.Workers).
		Int("match_cap", cfg.MatchCap).
		Msg("configuration loaded")

	return cfg, nil
}

// DefaultTours is the standard VCT tour table with each tier's active
// archive years.
func DefaultTours() []Tour {
	return []Tour{
		{Name: "game-changers", Years: []int{2022, 2023, 2024}},
		{Name: "vct-challengers", Years: []int{2023, 2024}},
		{Name: "vct-international", Years: []int{2022, 2023, 2024}},
	}
}

// TourByName returns the named tour from the configured table.
func (c *Config) TourByName(name string) (Tour, bool) {
	for _, t := range c.Tours {
		if t.Name == name {
			return t, true
		}
	}
	return Tour{}, false
}
