// Package pattern recognizes ISO-8601-like UTC timestamps embedded in
// arbitrary text and extracts their calendar fields.
package pattern

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// Capture group names shared by the matcher and the extractor.
const (
	GroupYear   = "year"
	GroupMonth  = "month"
	GroupDay    = "day"
	GroupHour   = "hour"
	GroupMinute = "minute"
	GroupSecond = "second"
	GroupSuffix = "suffix"
)

const basePattern = `(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})` +
	`T(?P<hour>\d{2}):(?P<minute>\d{2}):(?P<second>\d{2})`

// RawMatch is one timestamp candidate located by the Matcher. Its fields hold
// the matched digit runs exactly as they appear in the line.
type RawMatch struct {
	// Start and End are the byte offsets of the match, End exclusive.
	Start int
	End   int

	Year   string
	Month  string
	Day    string
	Hour   string
	Minute string
	Second string

	// Suffix is the trailing precision or marker material, empty if absent.
	Suffix string

	// Rule is the index of the suffix rule that matched, or -1.
	Rule int
}

// Matcher finds timestamps in lines of text. It is immutable once built and
// safe for concurrent use.
type Matcher struct {
	re    *regexp.Regexp
	rules RuleSet

	fields [6]int // submatch index of year..second
	suffix int    // submatch index of the whole suffix group, or -1
	ruleAt []int  // submatch index of each rule alternative
}

// NewMatcher compiles a matcher for the given suffix rules.
func NewMatcher(rules RuleSet) (*Matcher, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	expr := basePattern
	if len(rules) > 0 {
		alts := make([]string, len(rules))
		for i, r := range rules {
			alts[i] = fmt.Sprintf("(?P<r%d>%s)", i, r.expr())
		}
		expr += "(?P<suffix>" + strings.Join(alts, "|") + ")?"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling timestamp pattern: %w", err)
	}

	m := &Matcher{
		re:     re,
		rules:  append(RuleSet(nil), rules...),
		suffix: -1,
		ruleAt: make([]int, len(rules)),
	}
	for i, name := range []string{GroupYear, GroupMonth, GroupDay, GroupHour, GroupMinute, GroupSecond} {
		m.fields[i] = re.SubexpIndex(name)
	}
	if len(rules) > 0 {
		m.suffix = re.SubexpIndex(GroupSuffix)
		for i := range rules {
			m.ruleAt[i] = re.SubexpIndex(fmt.Sprintf("r%d", i))
		}
	}
	return m, nil
}

// MustMatcher is like NewMatcher but panics on an invalid rule set.
func MustMatcher(rules RuleSet) *Matcher {
	m, err := NewMatcher(rules)
	if err != nil {
		panic(err)
	}
	return m
}

// Default returns a matcher using DefaultRules.
func Default() *Matcher {
	return MustMatcher(DefaultRules())
}

// Rules returns a copy of the suffix rules the matcher was built with.
func (m *Matcher) Rules() RuleSet {
	return append(RuleSet(nil), m.rules...)
}

// String returns the compiled regular expression.
func (m *Matcher) String() string {
	return m.re.String()
}

// All yields every non-overlapping timestamp in line, left to right.
// Scanning resumes at the end of the previous candidate. A candidate whose
// bounded suffix runs straight into another digit is not a timestamp and is
// not yielded.
func (m *Matcher) All(line string) iter.Seq[RawMatch] {
	return func(yield func(RawMatch) bool) {
		pos := 0
		for pos < len(line) {
			loc := m.re.FindStringSubmatchIndex(line[pos:])
			if loc == nil {
				return
			}
			raw := m.raw(line, pos, loc)
			pos = raw.End
			if m.overruns(line, raw) {
				continue
			}
			if !yield(raw) {
				return
			}
		}
	}
}

// Find returns all timestamps in line.
func (m *Matcher) Find(line string) []RawMatch {
	var out []RawMatch
	for raw := range m.All(line) {
		out = append(out, raw)
	}
	return out
}

func (m *Matcher) raw(line string, offset int, loc []int) RawMatch {
	group := func(i int) string {
		if i < 0 || loc[2*i] < 0 {
			return ""
		}
		return line[offset+loc[2*i] : offset+loc[2*i+1]]
	}

	raw := RawMatch{
		Start:  offset + loc[0],
		End:    offset + loc[1],
		Year:   group(m.fields[0]),
		Month:  group(m.fields[1]),
		Day:    group(m.fields[2]),
		Hour:   group(m.fields[3]),
		Minute: group(m.fields[4]),
		Second: group(m.fields[5]),
		Suffix: group(m.suffix),
		Rule:   -1,
	}
	for i, idx := range m.ruleAt {
		if loc[2*idx] >= 0 {
			raw.Rule = i
			break
		}
	}
	return raw
}

func (m *Matcher) overruns(line string, raw RawMatch) bool {
	if raw.Rule < 0 || !m.rules[raw.Rule].bounded() {
		return false
	}
	return raw.End < len(line) && isDigit(line[raw.End])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
