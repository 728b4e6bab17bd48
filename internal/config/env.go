package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "BOOKMARKS_"

func parseEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return cfg, nil
}
