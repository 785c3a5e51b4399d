package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cjappl/trtz/internal/log"
	"github.com/cjappl/trtz/pkg/config"
	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/output"
	"github.com/cjappl/trtz/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigFile string
	EnvFile    string
	LogLevel   string
	LogFormat  string
}

// AddFlags registers the global flags as persistent flags on cmd.
func (g *GlobalOptions) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	flags.StringVar(&g.EnvFile, "env-file", config.DefaultEnvFile, "Environment file to load TRTZ_* variables from (missing is fine)")
	flags.StringVar(&g.LogLevel, "log-level", "", "Diagnostic log level (debug|info|warn|error|off)")
	flags.StringVar(&g.LogFormat, "log-format", "", "Diagnostic log format (pretty|json)")
}

// loadConfig builds the effective configuration: defaults, config file,
// .env file, environment, then flags.
func loadConfig(ctx context.Context, g *GlobalOptions, o config.Overrides) (*config.Config, error) {
	if g.EnvFile != "" {
		if err := config.LoadDotEnv(g.EnvFile); err != nil {
			return nil, err
		}
	}

	o.LogLevel = g.LogLevel
	o.LogFormat = g.LogFormat

	cfg, err := config.LoadWithOverrides(ctx, g.ConfigFile, o)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger returns the diagnostic logger for cmd. It always writes to
// stderr so diagnostics never mix with converted output.
func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	logger, err := log.NewFromStrings(cmd.ErrOrStderr(), cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return zerolog.Nop()
	}
	return logger.With().Str("command", cmd.Name()).Logger()
}

// expandInputs resolves the positional arguments to input files. No
// arguments means stdin.
func expandInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{parser.StdinName}, nil
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return nil, fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched: %v", args)
	}
	return files, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// findingCollector gathers rejections from filters that may run
// concurrently across files.
type findingCollector struct {
	mu       sync.Mutex
	findings []output.Finding
}

func (c *findingCollector) add(e *filter.InvalidTimestampError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findings = append(c.findings, output.FindingFrom(e))
}

// list returns the findings ordered by source, line and column.
func (c *findingCollector) list() []output.Finding {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := append([]output.Finding(nil), c.findings...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}
