// Package output provides formatting for run reports.
package output

import (
	"errors"
	"time"

	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/tz"
)

// Report is the complete output of a convert or check run.
type Report struct {
	Summary  Summary   `json:"summary"`
	Findings []Finding `json:"findings"`
	Metadata Metadata  `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Files         int `json:"files,omitempty"`
	Lines         int `json:"lines"`
	LinesChanged  int `json:"lines_changed"`
	Converted     int `json:"converted"`
	Rejected      int `json:"rejected"`
	PassedThrough int `json:"passed_through"`
}

// Finding is one invalid timestamp.
type Finding struct {
	Source    string `json:"source"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Timestamp string `json:"timestamp"`

	// Field is the calendar field that was out of range, if known.
	Field string `json:"field,omitempty"`

	Reason string `json:"reason"`
}

// Metadata provides context about the run.
type Metadata struct {
	Command    string        `json:"command"`
	ConfigFile string        `json:"config_file,omitempty"`
	Timezone   string        `json:"timezone"`
	Policy     string        `json:"policy"`
	Sources    []string      `json:"sources"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from run statistics and findings.
func NewReport(stats *filter.Stats, findings []Finding, meta Metadata) *Report {
	r := &Report{
		Findings: findings,
		Metadata: meta,
	}
	if r.Findings == nil {
		r.Findings = []Finding{}
	}
	if stats != nil {
		r.Summary = Summary{
			Files:         stats.Files,
			Lines:         stats.Lines,
			LinesChanged:  stats.LinesChanged,
			Converted:     stats.Converted,
			Rejected:      stats.Rejected,
			PassedThrough: stats.PassedThrough,
		}
	}
	return r
}

// FindingFrom converts a filter rejection into a Finding.
func FindingFrom(e *filter.InvalidTimestampError) Finding {
	f := Finding{
		Source:    e.Source,
		Line:      e.LineNum,
		Column:    e.Column,
		Timestamp: e.Text,
	}
	if e.Err != nil {
		f.Reason = e.Err.Error()
	}
	var inv *tz.InvalidInstantError
	if errors.As(e.Err, &inv) {
		f.Field = inv.Field
	}
	return f
}

// HasIssues returns true if any invalid timestamps were found.
func (r *Report) HasIssues() bool {
	return len(r.Findings) > 0 || r.Summary.Rejected > 0
}
