package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cjappl/trtz/pkg/config"
	"github.com/cjappl/trtz/pkg/detector"
	"github.com/cjappl/trtz/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand(g *GlobalOptions) *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect timestamp suffix shapes in a log file",
		Long: `Sample a log file and report which timestamp suffixes it uses (Z,
.123456, :12, ,123 ...) and whether the configured suffix rules recognize
them all.

Warns about timestamps that carry an explicit UTC offset such as +02:00:
those are not UTC, so converting them as UTC would be wrong.

Optionally writes a starter config with rules for every observed suffix
using --write-config. Use "-" to sample standard input.

Example:
  trtz detect /var/log/myapp.log
  trtz detect --sample 500 /var/log/large.log
  kubectl logs my-pod | trtz detect -
  trtz detect --write-config trtz.yaml /var/log/app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected shapes, not just the most common")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, g *GlobalOptions, opts *DetectOptions) error {
	logFile := args[0]
	ctx := contextOf(cmd)

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	if logFile != parser.StdinName {
		if _, err := os.Stat(logFile); os.IsNotExist(err) {
			return fmt.Errorf("log file not found: %s", logFile)
		}
	}

	cfg, err := loadConfig(ctx, g, config.Overrides{})
	if err != nil {
		return err
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithMatcher(cfg.Matcher()),
	)

	result, err := d.DetectFromFile(ctx, logFile, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, cfg, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, logFile, opts)
	default:
		return outputDetectText(out, result, logFile, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Timestamp Suffix Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with timestamps: %d\n", result.TimestampLines)
	fmt.Fprintf(w, "Timestamps: %d\n", result.Timestamps)
	fmt.Fprintln(w)

	if !result.HasTimestamps() {
		fmt.Fprintln(w, "No timestamps detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: trtz only recognizes YYYY-MM-DDTHH:MM:SS timestamps.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Most common suffix: %s (%d timestamps)\n", best.Shape, best.Count)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.Sample)
	fmt.Fprintf(w, "Coverage: %.1f%% of timestamps fully recognized by the current rules\n", result.Coverage()*100)
	if result.Invalid > 0 {
		fmt.Fprintf(w, "Invalid: %d\n", result.Invalid)
	}
	fmt.Fprintln(w)

	for _, warning := range result.Warnings() {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
	if len(result.Warnings()) > 0 {
		fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Shapes) > 1 {
		fmt.Fprintln(w, "--- All suffix shapes detected ---")
		for i, sc := range result.Shapes {
			covered := "covered"
			if !sc.Covered {
				covered = "NOT covered"
			}
			fmt.Fprintf(w, "%d. %s: %d (%s)\n", i+1, sc.Shape, sc.Count, covered)
			fmt.Fprintf(w, "   sample: %s\n", sc.Sample)
		}
		fmt.Fprintln(w)
	}

	if result.Uncovered > result.Offsets {
		snippet, err := yaml.Marshal(struct {
			SuffixRules []config.SuffixRuleConfig `yaml:"suffix_rules"`
		}{config.SuffixRulesFrom(result.Suggest())})
		if err != nil {
			return fmt.Errorf("encoding suggested rules: %w", err)
		}
		fmt.Fprintln(w, "--- Suggested rules (copy to your config file) ---")
		fmt.Fprintln(w)
		fmt.Fprint(w, string(snippet))
		fmt.Fprintln(w)
	}

	return nil
}

// JSONShape represents a suffix shape in JSON output.
type JSONShape struct {
	Kind      string `json:"kind"`
	Shape     string `json:"shape"`
	Count     int    `json:"count"`
	Covered   bool   `json:"covered"`
	Sample    string `json:"sample"`
	Separator string `json:"separator,omitempty"`
	Digits    int    `json:"digits,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File           string      `json:"file"`
	Shapes         []JSONShape `json:"shapes"`
	SampledLines   int         `json:"sampled_lines"`
	TimestampLines int         `json:"timestamp_lines"`
	Timestamps     int         `json:"timestamps"`
	Invalid        int         `json:"invalid"`
	Offsets        int         `json:"offsets"`
	Coverage       float64     `json:"coverage"`
	Warnings       []string    `json:"warnings,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:           logFile,
		SampledLines:   result.SampledLines,
		TimestampLines: result.TimestampLines,
		Timestamps:     result.Timestamps,
		Invalid:        result.Invalid,
		Offsets:        result.Offsets,
		Coverage:       result.Coverage(),
		Warnings:       result.Warnings(),
		Shapes:         make([]JSONShape, 0),
	}

	shapes := result.Shapes
	if !opts.ShowAll && len(shapes) > 1 {
		shapes = shapes[:1]
	}

	for _, sc := range shapes {
		out.Shapes = append(out.Shapes, JSONShape{
			Kind:      string(sc.Shape.Kind),
			Shape:     sc.Shape.String(),
			Count:     sc.Count,
			Covered:   sc.Covered,
			Sample:    sc.Sample,
			Separator: sc.Shape.Separator,
			Digits:    sc.Shape.Digits,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a config whose suffix rules recognize every
// observed shape.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, cfg *config.Config, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasTimestamps() {
		return fmt.Errorf("cannot generate config: no timestamps detected")
	}

	content, err := generateStarterConfig(result, cfg, logFile)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig renders the starter config with a header naming the
// sampled file.
func generateStarterConfig(result *detector.DetectionResult, cfg *config.Config, logFile string) ([]byte, error) {
	starter := config.DefaultConfig()
	starter.Timezone = cfg.Timezone
	starter.OnInvalid = cfg.OnInvalid
	starter.SuffixRules = config.SuffixRulesFrom(result.Suggest())

	body, err := config.Marshal(starter)
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf(`# trtz configuration
# Generated by: trtz detect %s
# Sampled %d timestamps in %d lines
#
# timezone: Local | UTC | +05:30 | IANA name such as America/Los_Angeles
# on_invalid: abort | skip | passthrough

`, logFile, result.Timestamps, result.SampledLines)

	return append([]byte(header), body...), nil
}
