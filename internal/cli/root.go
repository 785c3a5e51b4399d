// Package cli provides the command-line interface for trtz.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cjappl/trtz/internal/cli/commands"
	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/pattern"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitInvalid  = 1 // invalid timestamp under abort, or check found issues
	ExitError    = 2 // configuration, I/O or runtime error
	ExitInternal = 3 // contract violation
)

// Execute runs the root command against the process arguments and streams
// and returns the exit code.
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes the command line args with the given streams and returns the
// exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	commands.ExitCode = ExitOK

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return commands.ExitCode
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, pattern.ErrContract):
		return ExitInternal
	case errors.Is(err, filter.ErrInvalidTimestamp):
		return ExitInvalid
	default:
		return ExitError
	}
}

// NewRootCommand creates the root cobra command. Without a subcommand it
// behaves like convert.
func NewRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}
	convert := &commands.ConvertOptions{}

	rootCmd := &cobra.Command{
		Use:   "trtz [files...]",
		Short: "Rewrite UTC timestamps in log lines into another timezone",
		Long: `trtz is a streaming filter that finds UTC ISO-8601 timestamps in log
lines and rewrites them into a target timezone, leaving everything else
byte-for-byte intact.

` + commands.ConvertLong + `

Example:
  kubectl logs my-pod | trtz --tz America/Los_Angeles
  trtz --tz -08:00 app.log`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunConvert(cmd, args, global, convert)
		},
	}

	global.AddFlags(rootCmd)
	commands.AddConvertFlags(rootCmd, convert)

	rootCmd.AddCommand(commands.NewConvertCommand(global))
	rootCmd.AddCommand(commands.NewCheckCommand(global))
	rootCmd.AddCommand(commands.NewDetectCommand(global))
	rootCmd.AddCommand(commands.NewValidateCommand(global))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
