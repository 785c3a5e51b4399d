package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cjappl/trtz/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a trtz configuration file without converting anything.

Checks:
  - YAML syntax and unknown keys
  - Timezone (fixed offset or IANA name)
  - Invalid timestamp policy
  - Suffix rule kinds, separators and digit bounds
  - Logging level and format

TRTZ_* environment variables are applied before validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, g)
		},
	}
}

func runValidate(cmd *cobra.Command, args []string, g *GlobalOptions) error {
	configPath := args[0]
	ctx := contextOf(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	opts := *g
	opts.ConfigFile = configPath
	cfg, err := loadConfig(ctx, &opts, config.Overrides{})
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	name, offset := cfg.Resolver().OffsetAt(time.Now())

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Timezone:   %s (now %s, %+ds)\n", cfg.Resolver(), name, offset)
	fmt.Fprintf(w, "  On invalid: %s\n", cfg.Policy())
	fmt.Fprintf(w, "  Logging:    %s, %s\n", cfg.Logging.Level, cfg.Logging.Format)

	fmt.Fprintf(w, "\nSuffix rules:\n")
	rules := cfg.RuleSet()
	if len(rules) == 0 {
		fmt.Fprintf(w, "  (none: only bare timestamps are converted)\n")
	}
	for i, rule := range rules {
		fmt.Fprintf(w, "  %d. %s\n", i+1, rule)
	}

	return nil
}
