package output

import (
	"context"
	"encoding/json"
	"io"
)

// Report status values in JSON output.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid_timestamps"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as one indented JSON document with a top-level
// status. Quiet mode writes the status and summary fields only.
func (f *JSONFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	status := StatusOK
	if report.HasIssues() {
		status = StatusInvalid
	}

	var doc any
	if f.opts.Quiet {
		doc = struct {
			Status string `json:"status"`
			Summary
		}{status, report.Summary}
	} else {
		doc = struct {
			Status string `json:"status"`
			*Report
		}{status, report}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
