package config

import (
	"github.com/cjappl/trtz/internal/log"
	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/pattern"
)

// Default values for configuration.
const (
	DefaultTimezone = "Local"
	DefaultEnvFile  = ".env"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timezone:    DefaultTimezone,
		OnInvalid:   string(filter.DefaultPolicy),
		SuffixRules: SuffixRulesFrom(pattern.DefaultRules()),
		Logging: LoggingConfig{
			Level:  log.DefaultLevel,
			Format: string(log.FormatPretty),
		},
	}
}

// ApplyOverrides copies the non-empty override fields into the config.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.OnInvalid != "" {
		c.OnInvalid = o.OnInvalid
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
}
