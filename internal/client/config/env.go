package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/dmitrijs2005/steamkeeper/internal/filex"
)

const envPrefix = "STEAMKEEPER"

// dotEnvFile is read when present. Variables already set in the process
// environment are not overridden by it.
var dotEnvFile = ".env"

// parseEnv overlays cfg with STEAMKEEPER_* variables. Unset variables leave
// fields unchanged.
func parseEnv(cfg *Config) error {
	if filex.Exists(dotEnvFile) {
		if err := godotenv.Load(dotEnvFile); err != nil {
			return fmt.Errorf("load %s: %w", dotEnvFile, err)
		}
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
