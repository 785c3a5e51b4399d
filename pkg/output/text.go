package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "trtz: %d lines, %d timestamps converted, %d invalid\n",
		report.Summary.Lines,
		report.Summary.Converted,
		report.Summary.Rejected)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	var b strings.Builder

	title := report.Metadata.Command
	if title == "" {
		title = "run"
	}
	fmt.Fprintf(&b, "=== trtz %s report ===\n", title)

	if len(report.Findings) == 0 {
		b.WriteString("No invalid timestamps\n")
	} else {
		fmt.Fprintf(&b, "Invalid timestamps: %d\n", len(report.Findings))
		for _, fd := range report.Findings {
			fmt.Fprintf(&b, "  - %s:%d:%d %s: %s\n", fd.Source, fd.Line, fd.Column, fd.Timestamp, fd.Reason)
		}
	}

	s := report.Summary
	b.WriteString("---\n")
	fmt.Fprintf(&b, "Summary: %d lines, %d changed, %d timestamps converted, %d invalid",
		s.Lines, s.LinesChanged, s.Converted, s.Rejected)
	if s.PassedThrough > 0 {
		fmt.Fprintf(&b, ", %d lines passed through", s.PassedThrough)
	}
	b.WriteString("\n")

	if f.opts.Verbose {
		m := report.Metadata
		if s.Files > 0 {
			fmt.Fprintf(&b, "Files: %d\n", s.Files)
		}
		fmt.Fprintf(&b, "Timezone: %s\n", m.Timezone)
		fmt.Fprintf(&b, "Policy: %s\n", m.Policy)
		if m.ConfigFile != "" {
			fmt.Fprintf(&b, "Config: %s\n", m.ConfigFile)
		}
		if len(m.Sources) > 0 {
			fmt.Fprintf(&b, "Sources: %s\n", strings.Join(m.Sources, ", "))
		}
		fmt.Fprintf(&b, "Duration: %s\n", m.Duration.Round(1e6))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
