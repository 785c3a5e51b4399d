package rewriter

import (
	"fmt"

	"github.com/cjappl/trtz/pkg/pattern"
	"github.com/cjappl/trtz/pkg/tz"
)

// Rewriter rewrites every timestamp in a line into a target timezone.
// It holds no per-line state and is safe for concurrent use.
type Rewriter struct {
	matcher  *pattern.Matcher
	resolver tz.Resolver

	extract func(pattern.RawMatch) (pattern.Match, error)
}

// New creates a rewriter from a compiled matcher and a target timezone.
func New(m *pattern.Matcher, r tz.Resolver) *Rewriter {
	return &Rewriter{
		matcher:  m,
		resolver: r,
		extract:  pattern.Extract,
	}
}

// Matcher returns the matcher in use.
func (rw *Rewriter) Matcher() *pattern.Matcher {
	return rw.matcher
}

// Resolver returns the target timezone.
func (rw *Rewriter) Resolver() tz.Resolver {
	return rw.resolver
}

// Rewrite converts each timestamp in line, copying all other bytes unchanged.
// Timestamps with impossible calendar values are left as-is and reported in
// the result's Rejections. A contract violation stops the line and sets Err.
func (rw *Rewriter) Rewrite(line string) Result {
	res := Result{Original: line}

	pos := 0
	for raw := range rw.matcher.All(line) {
		res.Line.literal(line[pos:raw.Start])
		text := line[raw.Start:raw.End]
		pos = raw.End

		m, err := rw.extract(raw)
		if err != nil {
			res.Err = fmt.Errorf("column %d: %w", raw.Start+1, err)
			return res
		}

		out, err := Render(m, rw.resolver)
		if err != nil {
			res.Rejections = append(res.Rejections, Rejection{Match: m, Text: text, Err: err})
			res.Line.literal(text)
			continue
		}
		res.Line.timestamp(out, text)
		res.Converted++
	}
	res.Line.literal(line[pos:])

	return res
}

// Render validates m, converts it through r and returns the replacement text:
// YYYY-MM-DDTHH:MM:SS followed by the suffix exactly as matched.
func Render(m pattern.Match, r tz.Resolver) (string, error) {
	instant, err := tz.NewCalendarInstant(m.Year, m.Month, m.Day, m.Hour, m.Minute, m.Second)
	if err != nil {
		return "", err
	}
	local, err := instant.Convert(r)
	if err != nil {
		return "", err
	}
	return local.Format() + m.Suffix, nil
}
