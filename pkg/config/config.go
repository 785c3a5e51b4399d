package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cjappl/trtz/internal/log"
	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/pattern"
	"github.com/cjappl/trtz/pkg/tz"
)

// Read parses a configuration file over the defaults without validating it.
// Unknown keys are rejected.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Load reads and validates a configuration file. An empty path starts from
// the defaults. Environment overrides are applied before validation.
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadWithOverrides(ctx, path, Overrides{})
}

// LoadWithOverrides is like Load but applies o after the environment.
func LoadWithOverrides(_ context.Context, path string, o Overrides) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = Read(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnvironment(); err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(o)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, compiles the timestamp matcher
// and resolves the timezone.
func Validate(cfg *Config) error {
	resolver, err := tz.Parse(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	policy, err := filter.ParsePolicy(cfg.OnInvalid)
	if err != nil {
		return fmt.Errorf("on_invalid: %w", err)
	}

	for i, r := range cfg.SuffixRules {
		if err := r.Rule().Validate(); err != nil {
			return fmt.Errorf("suffix_rules[%d] (%s): %w", i, r.Kind, err)
		}
	}

	matcher, err := pattern.NewMatcher(cfg.RuleSet())
	if err != nil {
		return fmt.Errorf("suffix_rules: %w", err)
	}

	if _, err := log.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := log.ParseFormat(cfg.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}

	cfg.resolver = resolver
	cfg.policy = policy
	cfg.OnInvalid = string(policy)
	cfg.matcher = matcher

	return nil
}

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
