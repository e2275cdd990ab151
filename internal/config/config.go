package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath     string `env:"DB_PATH" envDefault:"cdl.db"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// Source site settings. BaseURL is overridable so tests can point the
	// fetcher at a local server.
	SourceBaseURL string `env:"SOURCE_BASE_URL" envDefault:"https://www.breakingpoint.gg"`
	LeagueTag     string `env:"LEAGUE_TAG" envDefault:"CDL"`
	Season        int    `env:"SEASON" envDefault:"2026"`
	SeasonStart   string `env:"SEASON_START" envDefault:"2024-12-01"`
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if _, err := time.Parse("2006-01-02", cfg.SeasonStart); err != nil {
		return nil, fmt.Errorf("invalid SEASON_START %q: %w", cfg.SeasonStart, err)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("source_base_url", cfg.SourceBaseURL).
		Int("season", cfg.Season).
		Msg("configuration loaded")

	return cfg, nil
}

// SeasonStartDate is the lower bound for a full re-scrape.
func (c *Config) SeasonStartDate() time.Time {
	t, _ := time.Parse("2006-01-02", c.SeasonStart)
	return t
}
