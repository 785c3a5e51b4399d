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

// ConvertOptions holds command-line options for the convert command.
type ConvertOptions struct {
	Timezone  string
	OnInvalid string
	OutDir    string
	Jobs      int
	Stats     bool
	Output    string
	Verbose   bool
}

// ConvertLong is shared by the root command, which converts when no
// subcommand is given.
const ConvertLong = `Rewrite UTC ISO-8601 timestamps (YYYY-MM-DDTHH:MM:SS plus an optional
suffix such as Z or .123456) into the target timezone. Everything else on
each line is copied through unchanged.

Reads standard input when no file (or "-") is given and writes to standard
output. With --out-dir each input file is converted to <out-dir>/<name>.

Exit codes:
  0 - Success
  1 - Invalid timestamp found (on_invalid: abort)
  2 - Configuration or I/O error
  3 - Internal error`

// NewConvertCommand creates the convert command.
func NewConvertCommand(g *GlobalOptions) *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert timestamps in log lines to a target timezone",
		Long: ConvertLong + `

Example:
  kubectl logs my-pod | trtz convert --tz America/Los_Angeles
  trtz convert --tz +05:30 app.log
  trtz convert --on-invalid skip --out-dir converted/ --jobs 4 'logs/*.log'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunConvert(cmd, args, g, opts)
		},
	}

	AddConvertFlags(cmd, opts)
	return cmd
}

// AddConvertFlags registers the convert flags on cmd.
func AddConvertFlags(cmd *cobra.Command, opts *ConvertOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.Timezone, "tz", "t", "", "Target timezone (Local|UTC|±HH:MM|IANA name)")
	flags.StringVar(&opts.OnInvalid, "on-invalid", "", "Invalid timestamp policy (abort|skip|passthrough)")
	flags.StringVarP(&opts.OutDir, "out-dir", "d", "", "Write each converted file to this directory instead of stdout")
	flags.IntVarP(&opts.Jobs, "jobs", "j", 0, "Files converted in parallel with --out-dir (0 = unlimited)")
	flags.BoolVar(&opts.Stats, "stats", false, "Print a run report to stderr")
	flags.StringVarP(&opts.Output, "output", "o", "text", "Report format for --stats (text|json)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Add run details to the --stats report")
}

// RunConvert runs a conversion with the given options.
func RunConvert(cmd *cobra.Command, args []string, g *GlobalOptions, opts *ConvertOptions) error {
	ctx := contextOf(cmd)
	started := time.Now()

	var formatter output.Formatter
	if opts.Stats {
		var err error
		formatter, err = output.NewFormatter(opts.Output, output.FormatOptions{Verbose: opts.Verbose})
		if err != nil {
			return err
		}
	}

	cfg, err := loadConfig(ctx, g, config.Overrides{
		Timezone:  opts.Timezone,
		OnInvalid: opts.OnInvalid,
	})
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	files, err := expandInputs(args)
	if err != nil {
		return err
	}

	if opts.OutDir != "" {
		if err := filter.CheckOutputs(files, opts.OutDir); err != nil {
			return err
		}
	}

	collector := &findingCollector{}
	f := filter.New(
		rewriter.New(cfg.Matcher(), cfg.Resolver()),
		filter.WithPolicy(cfg.Policy()),
		filter.WithLogger(logger),
		filter.WithRejectionHandler(collector.add),
	)

	logger.Debug().
		Str("config", g.ConfigFile).
		Str("timezone", cfg.Resolver().String()).
		Str("policy", string(cfg.Policy())).
		Strs("sources", files).
		Msg("converting")

	var stats *filter.Stats
	if opts.OutDir != "" {
		stats, err = f.RunFiles(ctx, files, opts.OutDir, opts.Jobs)
	} else {
		src := parser.NewFileSource(files, cmd.InOrStdin())
		defer src.Close()
		stats, err = f.Run(ctx, src, filter.NewWriterSink(cmd.OutOrStdout()))
	}

	if formatter != nil && stats != nil {
		report := output.NewReport(stats, collector.list(), output.Metadata{
			Command:    "convert",
			ConfigFile: g.ConfigFile,
			Timezone:   cfg.Resolver().String(),
			Policy:     string(cfg.Policy()),
			Sources:    files,
			StartedAt:  started,
			Duration:   time.Since(started),
		})
		if ferr := formatter.Format(ctx, report, cmd.ErrOrStderr()); ferr != nil && err == nil {
			err = fmt.Errorf("formatting output: %w", ferr)
		}
	}

	return err
}
