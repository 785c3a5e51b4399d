// Package config provides configuration loading and validation for trtz.
package config

import (
	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/pattern"
	"github.com/cjappl/trtz/pkg/tz"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Timezone is the conversion target: "Local", "UTC", a fixed offset such
	// as "-08:00", or an IANA name such as "America/Los_Angeles".
	Timezone string `yaml:"timezone"`

	// OnInvalid is the policy for impossible timestamps: abort, skip or
	// passthrough.
	OnInvalid string `yaml:"on_invalid"`

	// SuffixRules are the accepted shapes of the material after the seconds
	// field, in priority order.
	SuffixRules []SuffixRuleConfig `yaml:"suffix_rules"`

	Logging LoggingConfig `yaml:"logging"`

	// Populated during validation.
	matcher  *pattern.Matcher
	resolver tz.Resolver
	policy   filter.Policy
}

// Matcher returns the compiled timestamp matcher.
func (c *Config) Matcher() *pattern.Matcher {
	return c.matcher
}

// Resolver returns the resolved target timezone.
func (c *Config) Resolver() tz.Resolver {
	return c.resolver
}

// Policy returns the parsed invalid-timestamp policy.
func (c *Config) Policy() filter.Policy {
	return c.policy
}

// RuleSet converts the configured suffix rules.
func (c *Config) RuleSet() pattern.RuleSet {
	rs := make(pattern.RuleSet, len(c.SuffixRules))
	for i, r := range c.SuffixRules {
		rs[i] = r.Rule()
	}
	return rs
}

// SuffixRuleConfig is the YAML form of a pattern.SuffixRule.
type SuffixRuleConfig struct {
	Kind       string `yaml:"kind"` // marker, fraction, separated
	Literal    string `yaml:"literal,omitempty"`
	Separators string `yaml:"separators,omitempty"`
	MinDigits  int    `yaml:"min_digits,omitempty"`
	MaxDigits  int    `yaml:"max_digits,omitempty"`
}

// Rule converts the entry to a pattern.SuffixRule.
func (r SuffixRuleConfig) Rule() pattern.SuffixRule {
	return pattern.SuffixRule{
		Kind:       pattern.RuleKind(r.Kind),
		Literal:    r.Literal,
		Separators: r.Separators,
		MinDigits:  r.MinDigits,
		MaxDigits:  r.MaxDigits,
	}
}

// SuffixRulesFrom converts a rule set to its YAML form.
func SuffixRulesFrom(rs pattern.RuleSet) []SuffixRuleConfig {
	out := make([]SuffixRuleConfig, len(rs))
	for i, r := range rs {
		out[i] = SuffixRuleConfig{
			Kind:       string(r.Kind),
			Literal:    r.Literal,
			Separators: r.Separators,
			MinDigits:  r.MinDigits,
			MaxDigits:  r.MaxDigits,
		}
	}
	return out
}

// LoggingConfig controls diagnostics on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error, off
	Format string `yaml:"format"` // pretty, json
}

// Overrides carries command-line values that take precedence over the file
// and the environment. Empty fields are ignored.
type Overrides struct {
	Timezone  string
	OnInvalid string
	LogLevel  string
	LogFormat string
}
