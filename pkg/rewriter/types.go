// Package rewriter splices converted timestamps back into lines of text.
package rewriter

import (
	"strings"

	"github.com/cjappl/trtz/pkg/pattern"
)

// SegmentKind distinguishes passthrough text from rewritten timestamps.
type SegmentKind int

const (
	// SegmentLiteral is text copied from the input unchanged.
	SegmentLiteral SegmentKind = iota

	// SegmentTimestamp is a timestamp re-expressed in the target timezone.
	SegmentTimestamp
)

func (k SegmentKind) String() string {
	if k == SegmentTimestamp {
		return "timestamp"
	}
	return "literal"
}

// Segment is one contiguous piece of an output line.
type Segment struct {
	Kind SegmentKind

	// Text is the output text of the segment.
	Text string

	// Original is the input text the segment replaces. For literal segments
	// it equals Text.
	Original string
}

// Line is an output line as an ordered list of segments.
type Line struct {
	Segments []Segment
}

func (l *Line) literal(s string) {
	if s == "" {
		return
	}
	l.Segments = append(l.Segments, Segment{Kind: SegmentLiteral, Text: s, Original: s})
}

func (l *Line) timestamp(text, original string) {
	l.Segments = append(l.Segments, Segment{Kind: SegmentTimestamp, Text: text, Original: original})
}

// String concatenates the output text of every segment.
func (l Line) String() string {
	var sb strings.Builder
	for _, s := range l.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Original concatenates the input text of every segment.
func (l Line) Original() string {
	var sb strings.Builder
	for _, s := range l.Segments {
		sb.WriteString(s.Original)
	}
	return sb.String()
}

// Timestamps returns the rewritten segments in order.
func (l Line) Timestamps() []Segment {
	var out []Segment
	for _, s := range l.Segments {
		if s.Kind == SegmentTimestamp {
			out = append(out, s)
		}
	}
	return out
}

// Rejection records a matched timestamp whose calendar values are impossible.
// The span is left as original text in the output line.
type Rejection struct {
	Match pattern.Match

	// Text is the matched substring.
	Text string

	// Err is a *tz.InvalidInstantError.
	Err error
}

// Column returns the 1-based byte column where the timestamp starts.
func (r Rejection) Column() int {
	return r.Match.Start + 1
}

// Outcome classifies a rewritten line.
type Outcome int

const (
	// Unchanged means the line held no timestamps.
	Unchanged Outcome = iota

	// Converted means every timestamp in the line was rewritten.
	Converted

	// Rejected means at least one timestamp had impossible calendar values.
	Rejected

	// Fatal means the matcher and extractor disagreed.
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Converted:
		return "converted"
	case Rejected:
		return "rejected"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is the outcome of rewriting one line.
type Result struct {
	// Original is the input line.
	Original string

	// Line is the rebuilt output. Rejected spans hold their original text.
	Line Line

	// Converted counts the timestamps rewritten.
	Converted int

	// Rejections lists timestamps left untouched because they were invalid.
	Rejections []Rejection

	// Err is set on a contract violation. Line is incomplete when it is.
	Err error
}

// Outcome reports the most severe thing that happened to the line.
func (r *Result) Outcome() Outcome {
	switch {
	case r.Err != nil:
		return Fatal
	case len(r.Rejections) > 0:
		return Rejected
	case r.Converted > 0:
		return Converted
	default:
		return Unchanged
	}
}

// Changed reports whether the output differs from the input.
func (r *Result) Changed() bool {
	return r.Err == nil && r.Converted > 0
}

// String returns the output line.
func (r *Result) String() string {
	return r.Line.String()
}
