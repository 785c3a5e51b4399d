// Package detector samples input and reports which timestamp suffix shapes it
// contains, and whether a suffix rule set covers them.
package detector

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cjappl/trtz/pkg/parser"
	"github.com/cjappl/trtz/pkg/pattern"
	"github.com/cjappl/trtz/pkg/tz"
)

// DefaultSampleSize is the number of lines sampled when none is configured.
const DefaultSampleSize = 100

// baseLen is the length of "YYYY-MM-DDTHH:MM:SS".
const baseLen = 19

// ShapeCount is how often one shape was seen.
type ShapeCount struct {
	Shape Shape

	// Count is the number of timestamps with this shape.
	Count int

	// Covered reports whether the rule set converts this shape with its
	// whole suffix recognized.
	Covered bool

	// Sample is the first timestamp seen with this shape.
	Sample string
}

// DetectionResult holds the result of sampling input.
type DetectionResult struct {
	SampledLines   int          // Number of lines sampled
	TimestampLines int          // Lines holding at least one timestamp
	Timestamps     int          // Timestamps found
	Shapes         []ShapeCount // Sorted by count descending
	Invalid        int          // Timestamps with impossible calendar values
	Offsets        int          // Timestamps carrying a non-UTC offset
	Uncovered      int          // Timestamps the rule set does not fully recognize
}

// Detector samples lines and classifies timestamp tails.
type Detector struct {
	matcher    *pattern.Matcher
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithMatcher sets the matcher whose rules coverage is checked against.
func WithMatcher(m *pattern.Matcher) Option {
	return func(d *Detector) {
		if m != nil {
			d.matcher = m
		}
	}
}

// New creates a new Detector checking coverage against the default rules.
func New(opts ...Option) *Detector {
	d := &Detector{
		matcher:    pattern.Default(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a file. A path of "-" samples stdin.
func (d *Detector) DetectFromFile(ctx context.Context, path string, stdin io.Reader) (*DetectionResult, error) {
	src := parser.NewFileSource([]string{path}, stdin)
	defer src.Close()
	return d.DetectFromSource(ctx, src)
}

// DetectFromSource samples up to the sample size of non-blank lines from src.
func (d *Detector) DetectFromSource(ctx context.Context, src parser.LineSource) (*DetectionResult, error) {
	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line.Text) != "" {
			lines = append(lines, line.Text)
		}
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines classifies every timestamp in lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{SampledLines: len(lines)}

	counts := make(map[Shape]*ShapeCount)
	for _, line := range lines {
		found := false
		for _, loc := range probe.FindAllStringSubmatchIndex(line, -1) {
			found = true
			result.Timestamps++

			groups := make([]string, len(loc)/2)
			for i := range groups {
				if loc[2*i] >= 0 {
					groups[i] = line[loc[2*i]:loc[2*i+1]]
				}
			}

			shape := classify(groups)
			covered := d.covers(line[loc[0]:], shape, groups)

			sc := counts[shape]
			if sc == nil {
				sc = &ShapeCount{Shape: shape, Covered: covered, Sample: groups[0]}
				counts[shape] = sc
			}
			sc.Count++

			if !covered {
				result.Uncovered++
			}
			if shape.Kind == ShapeOffset {
				result.Offsets++
			}
			if !validInstant(groups) {
				result.Invalid++
			}
		}
		if found {
			result.TimestampLines++
		}
	}

	for _, sc := range counts {
		result.Shapes = append(result.Shapes, *sc)
	}
	sort.Slice(result.Shapes, func(i, j int) bool {
		if result.Shapes[i].Count != result.Shapes[j].Count {
			return result.Shapes[i].Count > result.Shapes[j].Count
		}
		return result.Shapes[i].Shape.String() < result.Shapes[j].Shape.String()
	})

	return result
}

// covers reports whether the matcher converts the timestamp starting at
// text[0] and consumes all of its separator and digits. Offsets are never
// covered: those timestamps are not UTC.
func (d *Detector) covers(text string, shape Shape, groups []string) bool {
	if shape.Kind == ShapeOffset {
		return false
	}

	need := 0
	switch shape.Kind {
	case ShapeFraction, ShapeSeparated:
		need = len(groups[probeSep]) + len(groups[probeDigits])
	case ShapeMarker:
		need = len(shape.Literal)
	}

	for raw := range d.matcher.All(text) {
		return raw.Start == 0 && raw.End-baseLen >= need
	}
	return false
}

func validInstant(groups []string) bool {
	var v [6]int
	for i := range v {
		n, err := strconv.Atoi(groups[probeYear+i])
		if err != nil {
			return false
		}
		v[i] = n
	}
	_, err := tz.NewCalendarInstant(v[0], uint(v[1]), uint(v[2]), uint(v[3]), uint(v[4]), uint(v[5]))
	return err == nil
}

// HasTimestamps returns true if at least one timestamp was found.
func (r *DetectionResult) HasTimestamps() bool {
	return r.Timestamps > 0
}

// BestMatch returns the most frequent shape, or nil if none found.
func (r *DetectionResult) BestMatch() *ShapeCount {
	if len(r.Shapes) == 0 {
		return nil
	}
	return &r.Shapes[0]
}

// Coverage returns the fraction of timestamps the rule set fully recognizes.
func (r *DetectionResult) Coverage() float64 {
	if r.Timestamps == 0 {
		return 0
	}
	return float64(r.Timestamps-r.Uncovered) / float64(r.Timestamps)
}

// Warnings describes problems worth telling the user about.
func (r *DetectionResult) Warnings() []string {
	var w []string
	if r.Offsets > 0 {
		w = append(w, strconv.Itoa(r.Offsets)+" timestamp(s) carry an explicit UTC offset; "+
			"they are not UTC and will not be converted correctly")
	}
	if n := r.Uncovered - r.Offsets; n > 0 {
		w = append(w, strconv.Itoa(n)+" timestamp(s) have a suffix the rules do not recognize; "+
			"consider the suggested rules")
	}
	if r.Invalid > 0 {
		w = append(w, strconv.Itoa(r.Invalid)+" timestamp(s) have impossible calendar values")
	}
	return w
}

// Suggest builds a rule set recognizing every observed suffix shape except
// offsets. With nothing observed it returns the default rules.
func (r *DetectionResult) Suggest() pattern.RuleSet {
	var (
		marker     bool
		fraction   bool
		sepMin     = map[string]int{}
		sepMax     = map[string]int{}
		separators []string
	)

	for _, sc := range r.Shapes {
		s := sc.Shape
		switch s.Kind {
		case ShapeMarker:
			marker = true
		case ShapeFraction:
			fraction = true
		case ShapeSeparated:
			if _, ok := sepMin[s.Separator]; !ok {
				separators = append(separators, s.Separator)
				sepMin[s.Separator] = s.Digits
				sepMax[s.Separator] = s.Digits
			}
			sepMin[s.Separator] = min(sepMin[s.Separator], s.Digits)
			sepMax[s.Separator] = max(sepMax[s.Separator], s.Digits)
		}
	}

	var rs pattern.RuleSet
	if marker {
		rs = append(rs, pattern.Marker("Z"))
	}
	if fraction {
		rs = append(rs, pattern.Fraction("."))
	}
	sort.Strings(separators)
	for _, sep := range separators {
		lo := max(sepMin[sep], 1)
		hi := min(sepMax[sep], pattern.MaxSeparatedDigits)
		lo = min(lo, hi)
		rs = append(rs, pattern.Separated(sep, lo, hi))
	}

	if len(rs) == 0 {
		return pattern.DefaultRules()
	}
	return rs
}
