package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TRTZ"

// EnvConfig holds environment-based overrides. Unset variables leave the
// file configuration alone.
type EnvConfig struct {
	// Env: TRTZ_TIMEZONE
	Timezone string `envconfig:"TIMEZONE"`

	// Env: TRTZ_ON_INVALID
	OnInvalid string `envconfig:"ON_INVALID"`

	// Env: TRTZ_LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`

	// Env: TRTZ_LOG_FORMAT
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// LoadFromEnv reads the TRTZ_ variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Overrides converts the environment values to overrides.
func (e EnvConfig) Overrides() Overrides {
	return Overrides{
		Timezone:  e.Timezone,
		OnInvalid: e.OnInvalid,
		LogLevel:  e.LogLevel,
		LogFormat: e.LogFormat,
	}
}

// ApplyEnvironment applies TRTZ_ environment overrides to the config.
func (c *Config) ApplyEnvironment() error {
	env, err := LoadFromEnv()
	if err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	c.ApplyOverrides(env.Overrides())
	return nil
}

// LoadDotEnv loads environment variables from a .env file. Variables already
// set in the process environment win. If path is empty, ".env" in the current
// directory is used. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
