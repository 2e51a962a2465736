package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Caixa"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Data struct {
		// Root of the JSON documents. Empty means <user config dir>/caixa/finance-data.
		Root string `envconfig:"DATA_ROOT"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	}

	Projection struct {
		Months int `envconfig:"PROJECTION_MONTHS" default:"12"`
	}
}

// DataDir returns the configured data root, falling back to the per-user config directory.
func (c *Config) DataDir() (string, error) {
	if c.Data.Root != "" {
		return c.Data.Root, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(base, "caixa", "finance-data"), nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Projection.Months < 1 {
		return nil, fmt.Errorf("PROJECTION_MONTHS must be at least 1, got %d", cfg.Projection.Months)
	}

	return &cfg, nil
}
