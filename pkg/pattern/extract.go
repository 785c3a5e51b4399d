package pattern

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrContract signals that the matcher yielded a field the extractor cannot
// parse. It indicates a defect, never bad input.
var ErrContract = errors.New("timestamp matcher and extractor disagree")

// ContractError describes a field that violated the matcher/extractor contract.
type ContractError struct {
	Field string
	Value string
	Err   error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: field %s=%q: %v", ErrContract, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%v: field %s=%q", ErrContract, e.Field, e.Value)
}

func (e *ContractError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrContract}
	}
	return []error{ErrContract, e.Err}
}

// Match is a timestamp with its calendar fields parsed to integers. The values
// are not yet validated against the calendar.
type Match struct {
	Start int
	End   int

	Year   int
	Month  uint
	Day    uint
	Hour   uint
	Minute uint
	Second uint

	// Suffix is copied verbatim from the input.
	Suffix string

	// Rule is the index of the suffix rule that matched, or -1.
	Rule int
}

// Text returns the matched substring of line.
func (m Match) Text(line string) string {
	return line[m.Start:m.End]
}

// Extract parses the digit runs of a raw match.
func Extract(raw RawMatch) (Match, error) {
	year, err := parseField(GroupYear, raw.Year, 4)
	if err != nil {
		return Match{}, err
	}

	m := Match{
		Start:  raw.Start,
		End:    raw.End,
		Year:   int(year),
		Suffix: raw.Suffix,
		Rule:   raw.Rule,
	}

	fields := []struct {
		name  string
		value string
		dst   *uint
	}{
		{GroupMonth, raw.Month, &m.Month},
		{GroupDay, raw.Day, &m.Day},
		{GroupHour, raw.Hour, &m.Hour},
		{GroupMinute, raw.Minute, &m.Minute},
		{GroupSecond, raw.Second, &m.Second},
	}
	for _, f := range fields {
		v, err := parseField(f.name, f.value, 2)
		if err != nil {
			return Match{}, err
		}
		*f.dst = uint(v)
	}

	return m, nil
}

func parseField(name, value string, width int) (uint64, error) {
	if len(value) != width {
		return 0, &ContractError{Field: name, Value: value, Err: fmt.Errorf("want %d digits", width)}
	}
	v, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, &ContractError{Field: name, Value: value, Err: err}
	}
	return v, nil
}
