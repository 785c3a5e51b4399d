package rewriter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjappl/trtz/pkg/pattern"
	"github.com/cjappl/trtz/pkg/tz"
)

var pst = tz.NewFixedOffset(-8 * 3600)

func TestRewrite_Scenarios(t *testing.T) {
	rw := New(pattern.Default(), pst)

	tests := []struct {
		name      string
		in        string
		want      string
		converted int
	}{
		{
			name:      "fraction and Z marker",
			in:        "2024-01-27T04:15:46.280000Z",
			want:      "2024-01-26T20:15:46.280000Z",
			converted: 1,
		},
		{
			name:      "Z marker",
			in:        "2024-01-29T23:21:38Z",
			want:      "2024-01-29T15:21:38Z",
			converted: 1,
		},
		{
			name:      "surrounding text",
			in:        "hello 2024-01-29T23:21:38Z world",
			want:      "hello 2024-01-29T15:21:38Z world",
			converted: 1,
		},
		{
			name:      "fraction without marker",
			in:        "2024-01-29T23:21:38.123456",
			want:      "2024-01-29T15:21:38.123456",
			converted: 1,
		},
		{
			name:      "two timestamps",
			in:        "start=2024-01-29T23:00:00Z end=2024-01-29T23:30:00Z",
			want:      "start=2024-01-29T15:00:00Z end=2024-01-29T15:30:00Z",
			converted: 2,
		},
		{
			name:      "no suffix",
			in:        "at 2024-01-29T23:21:38 ok",
			want:      "at 2024-01-29T15:21:38 ok",
			converted: 1,
		},
		{
			name:      "colon separated suffix",
			in:        "2024-01-29T23:21:38:123",
			want:      "2024-01-29T15:21:38:123",
			converted: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := rw.Rewrite(tt.in)
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.String())
			assert.Equal(t, tt.converted, res.Converted)
			assert.Equal(t, Converted, res.Outcome())
			assert.True(t, res.Changed())
		})
	}
}

func TestRewrite_Passthrough(t *testing.T) {
	rw := New(pattern.Default(), pst)

	lines := []string{
		"",
		"no timestamps here",
		"2024-01-29 23:21:38Z",
		"date 2024-01-29 only",
		"ünïcödé ✓ 12:00:00",
		"2024-1-29T23:21:38Z",
		"  \t trailing whitespace  ",
	}
	for _, line := range lines {
		res := rw.Rewrite(line)
		assert.Equal(t, line, res.String())
		assert.Equal(t, Unchanged, res.Outcome())
		assert.False(t, res.Changed())
	}
}

func TestRewrite_OverrunningSuffixPassesThrough(t *testing.T) {
	rw := New(pattern.Default(), pst)

	line := "t=2024-01-29T23:21:38:1234567 next"
	res := rw.Rewrite(line)
	require.NoError(t, res.Err)
	assert.Equal(t, line, res.String())
	assert.Equal(t, Unchanged, res.Outcome())
}

func TestRewrite_LiteralPreservation(t *testing.T) {
	rw := New(pattern.Default(), pst)

	line := "[INFO] ⏱ 2024-01-29T23:21:38Z\tuser=bob 2024-01-29T23:30:00.5 done"
	res := rw.Rewrite(line)
	require.NoError(t, res.Err)

	assert.Equal(t, line, res.Line.Original())

	var literal string
	for _, s := range res.Line.Segments {
		if s.Kind == SegmentLiteral {
			literal += s.Text
		}
	}
	assert.Equal(t, "[INFO] ⏱ \tuser=bob  done", literal)

	stamps := res.Line.Timestamps()
	require.Len(t, stamps, 2)
	assert.Equal(t, "2024-01-29T15:21:38Z", stamps[0].Text)
	assert.Equal(t, "2024-01-29T23:21:38Z", stamps[0].Original)
	assert.Equal(t, "2024-01-29T15:30:00.5", stamps[1].Text)
}

func TestRewrite_SuffixPreserved(t *testing.T) {
	rw := New(pattern.Default(), pst)

	for _, suffix := range []string{"Z", ".1", ".123456789", ":12", ".280000"} {
		res := rw.Rewrite("2024-06-01T12:00:00" + suffix)
		require.NoError(t, res.Err)
		assert.Equal(t, "2024-06-01T04:00:00"+suffix, res.String(), suffix)
	}
}

func TestRewrite_IdentityOffset(t *testing.T) {
	rw := New(pattern.Default(), tz.UTC)

	lines := []string{
		"2024-01-27T04:15:46.280000Z",
		"start=2024-01-29T23:00:00Z end=2024-01-29T23:30:00Z",
		"0001-01-01T00:00:00 9999-12-31T23:59:59Z",
	}
	for _, line := range lines {
		res := rw.Rewrite(line)
		require.NoError(t, res.Err)
		assert.Equal(t, line, res.String())
		assert.Equal(t, Converted, res.Outcome())
	}
}

func TestRewrite_RejectsImpossibleDate(t *testing.T) {
	rw := New(pattern.Default(), pst)

	line := "bad 2024-02-30T10:00:00Z good 2024-01-29T23:21:38Z"
	res := rw.Rewrite(line)
	require.NoError(t, res.Err)

	assert.Equal(t, Rejected, res.Outcome())
	assert.Equal(t, 1, res.Converted)
	require.Len(t, res.Rejections, 1)

	rej := res.Rejections[0]
	assert.Equal(t, "2024-02-30T10:00:00Z", rej.Text)
	assert.Equal(t, 5, rej.Column())
	assert.ErrorIs(t, rej.Err, tz.ErrInvalidInstant)

	var inv *tz.InvalidInstantError
	require.ErrorAs(t, rej.Err, &inv)
	assert.Equal(t, "day", inv.Field)

	assert.Equal(t, "bad 2024-02-30T10:00:00Z good 2024-01-29T15:21:38Z", res.String())
}

func TestRewrite_RejectsConvertedYearOverflow(t *testing.T) {
	rw := New(pattern.Default(), pst)

	res := rw.Rewrite("0000-01-01T01:00:00Z")
	assert.Equal(t, Rejected, res.Outcome())
	assert.Equal(t, "0000-01-01T01:00:00Z", res.String())
}

func TestRewrite_NamedZone(t *testing.T) {
	la, err := tz.LoadZone("America/Los_Angeles")
	require.NoError(t, err)
	rw := New(pattern.Default(), la)

	res := rw.Rewrite("jan=2024-01-15T20:00:00Z jul=2024-07-15T20:00:00Z")
	require.NoError(t, res.Err)
	assert.Equal(t, "jan=2024-01-15T12:00:00Z jul=2024-07-15T13:00:00Z", res.String())
}

func TestRewrite_ContractViolationIsFatal(t *testing.T) {
	rw := New(pattern.Default(), pst)
	rw.extract = func(raw pattern.RawMatch) (pattern.Match, error) {
		raw.Year = "20x4"
		return pattern.Extract(raw)
	}

	res := rw.Rewrite("x 2024-01-29T23:21:38Z")
	require.Error(t, res.Err)
	assert.Equal(t, Fatal, res.Outcome())
	assert.True(t, errors.Is(res.Err, pattern.ErrContract))
	assert.False(t, res.Changed())
}

func TestRender(t *testing.T) {
	m := pattern.Match{Year: 2024, Month: 1, Day: 29, Hour: 23, Minute: 21, Second: 38, Suffix: ".5Z"}
	out, err := Render(m, pst)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-29T15:21:38.5Z", out)

	m.Month = 13
	_, err = Render(m, pst)
	assert.ErrorIs(t, err, tz.ErrInvalidInstant)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "converted", Converted.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "fatal", Fatal.String())
}
