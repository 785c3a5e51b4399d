package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cjappl/trtz/pkg/filter"
	"github.com/cjappl/trtz/pkg/tz"
)

func createTestReport() *Report {
	_, dayErr := tz.NewCalendarInstant(2024, 2, 30, 10, 0, 0)
	finding := FindingFrom(&filter.InvalidTimestampError{
		Source:  "app.log",
		LineNum: 3,
		Column:  5,
		Text:    "2024-02-30T10:00:00Z",
		Err:     dayErr,
	})

	stats := &filter.Stats{Lines: 10, LinesChanged: 7, Converted: 8, Rejected: 1}
	return NewReport(stats, []Finding{finding}, Metadata{
		Command:   "check",
		Timezone:  "America/Los_Angeles",
		Policy:    "skip",
		Sources:   []string{"app.log"},
		StartedAt: time.Date(2024, 1, 29, 12, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	})
}

func TestFindingFrom(t *testing.T) {
	r := createTestReport()
	if len(r.Findings) != 1 {
		t.Fatalf("Findings = %d, want 1", len(r.Findings))
	}
	f := r.Findings[0]
	if f.Field != "day" {
		t.Errorf("Field = %q, want day", f.Field)
	}
	if f.Reason != "day 30 is outside [1, 29]" {
		t.Errorf("Reason = %q", f.Reason)
	}
	if f.Source != "app.log" || f.Line != 3 || f.Column != 5 {
		t.Errorf("location = %s:%d:%d, want app.log:3:5", f.Source, f.Line, f.Column)
	}
}

func TestNewReport_Empty(t *testing.T) {
	r := NewReport(nil, nil, Metadata{Command: "convert"})
	if r.HasIssues() {
		t.Error("HasIssues() = true for empty report")
	}
	if r.Findings == nil {
		t.Error("Findings should be an empty slice so JSON renders []")
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json", ""} {
		f, err := NewFormatter(name, FormatOptions{})
		if err != nil {
			t.Fatalf("NewFormatter(%q) error = %v", name, err)
		}
		want := name
		if want == "" {
			want = "text"
		}
		if f.Name() != want {
			t.Errorf("NewFormatter(%q).Name() = %q", name, f.Name())
		}
	}
	if _, err := NewFormatter("xml", FormatOptions{}); err == nil {
		t.Error("NewFormatter(xml) expected error")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Summary.Converted != 8 {
		t.Errorf("Converted = %d, want 8", parsed.Summary.Converted)
	}
	if len(parsed.Findings) != 1 || parsed.Findings[0].Timestamp != "2024-02-30T10:00:00Z" {
		t.Errorf("Findings = %+v", parsed.Findings)
	}
	if parsed.Metadata.Timezone != "America/Los_Angeles" {
		t.Errorf("Timezone = %q", parsed.Metadata.Timezone)
	}
	if !strings.Contains(buf.String(), `"status": "invalid_timestamps"`) {
		t.Errorf("JSON should carry the report status:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"lines_changed": 7`) {
		t.Errorf("JSON should use snake_case keys:\n%s", buf.String())
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{Quiet: true}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Summary
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Lines != 10 {
		t.Errorf("Lines = %d, want 10", parsed.Lines)
	}
	if strings.Contains(buf.String(), "findings") {
		t.Error("quiet JSON should contain only the summary")
	}
	if !strings.Contains(buf.String(), `"status": "invalid_timestamps"`) {
		t.Errorf("quiet JSON should carry the report status:\n%s", buf.String())
	}
}

func TestTextFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"=== trtz check report ===",
		"Invalid timestamps: 1",
		"app.log:3:5 2024-02-30T10:00:00Z: day 30 is outside [1, 29]",
		"Summary: 10 lines, 7 changed, 8 timestamps converted, 1 invalid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Timezone:") {
		t.Error("non-verbose output should not include metadata")
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{Verbose: true}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Timezone: America/Los_Angeles", "Policy: skip", "Sources: app.log", "Duration: 1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{Quiet: true}).Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "trtz: 10 lines, 8 timestamps converted, 1 invalid\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestTextFormatter_Format_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport(&filter.Stats{Lines: 2, Converted: 2, LinesChanged: 2}, nil, Metadata{Command: "convert"})
	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), r, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No invalid timestamps") {
		t.Errorf("output = %q", buf.String())
	}
}
