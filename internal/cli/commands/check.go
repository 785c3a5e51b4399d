package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cjappl/trtz/pkg/config"
	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/output"
	"github.com/cjappl/trtz/pkg/parser"
	"github.com/cjappl/trtz/pkg/rewriter"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	Timezone string
	Output   string
	Verbose  bool
	Quiet    bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand(g *GlobalOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report invalid timestamps without converting",
		Long: `Scan input the way convert would and report every timestamp that cannot
be converted (for example 2024-02-30T10:00:00Z), with its source, line and
column. Nothing is written to standard output except the report.

Exit codes:
  0 - No invalid timestamps
  1 - Invalid timestamps found
  2 - Configuration or I/O error
  3 - Internal error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Timezone, "tz", "t", "", "Target timezone (Local|UTC|±HH:MM|IANA name)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Add run details to the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, g *GlobalOptions, opts *CheckOptions) error {
	ctx := contextOf(cmd)
	started := time.Now()

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, g, config.Overrides{Timezone: opts.Timezone})
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	files, err := expandInputs(args)
	if err != nil {
		return err
	}

	// Rejections go to the report, not the log.
	collector := &findingCollector{}
	f := filter.New(
		rewriter.New(cfg.Matcher(), cfg.Resolver()),
		filter.WithPolicy(filter.PolicySkip),
		filter.WithRejectionHandler(collector.add),
	)

	logger.Debug().Strs("sources", files).Msg("checking")

	src := parser.NewFileSource(files, cmd.InOrStdin())
	defer src.Close()

	stats, err := f.Run(ctx, src, filter.Discard)
	if err != nil {
		return err
	}

	report := output.NewReport(stats, collector.list(), output.Metadata{
		Command:    "check",
		ConfigFile: g.ConfigFile,
		Timezone:   cfg.Resolver().String(),
		Policy:     string(filter.PolicySkip),
		Sources:    files,
		StartedAt:  started,
		Duration:   time.Since(started),
	})

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}
