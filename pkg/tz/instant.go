package tz

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the fixed rendering of a converted date and time.
const Layout = "2006-01-02T15:04:05"

// Year bounds of a four-digit timestamp.
const (
	MinYear = 0
	MaxYear = 9999
)

// ErrInvalidInstant is wrapped by every calendar validation failure.
var ErrInvalidInstant = errors.New("invalid calendar instant")

// InvalidInstantError names the calendar field that was out of range.
type InvalidInstantError struct {
	Field string
	Value int
	Min   int
	Max   int

	// Converted is set when the field left its range during timezone
	// conversion rather than on input.
	Converted bool
}

func (e *InvalidInstantError) Error() string {
	if e.Converted {
		return fmt.Sprintf("%s %d after conversion is outside [%d, %d]", e.Field, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("%s %d is outside [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (e *InvalidInstantError) Unwrap() error {
	return ErrInvalidInstant
}

// CalendarInstant is a year/month/day/hour/minute/second tuple known to be a
// real point on the proleptic Gregorian UTC calendar. Leap seconds are not
// modeled.
type CalendarInstant struct {
	t time.Time
}

// NewCalendarInstant validates the six fields as UTC. Values are rejected,
// never normalized: February 30 is an error, not March 1.
func NewCalendarInstant(year int, month, day, hour, minute, second uint) (CalendarInstant, error) {
	if year < MinYear || year > MaxYear {
		return CalendarInstant{}, &InvalidInstantError{Field: "year", Value: year, Min: MinYear, Max: MaxYear}
	}
	if month < 1 || month > 12 {
		return CalendarInstant{}, &InvalidInstantError{Field: "month", Value: int(month), Min: 1, Max: 12}
	}
	if days := DaysIn(year, month); day < 1 || int(day) > days {
		return CalendarInstant{}, &InvalidInstantError{Field: "day", Value: int(day), Min: 1, Max: days}
	}
	if hour > 23 {
		return CalendarInstant{}, &InvalidInstantError{Field: "hour", Value: int(hour), Min: 0, Max: 23}
	}
	if minute > 59 {
		return CalendarInstant{}, &InvalidInstantError{Field: "minute", Value: int(minute), Min: 0, Max: 59}
	}
	if second > 59 {
		return CalendarInstant{}, &InvalidInstantError{Field: "second", Value: int(second), Min: 0, Max: 59}
	}

	t := time.Date(year, time.Month(month), int(day), int(hour), int(minute), int(second), 0, time.UTC)
	return CalendarInstant{t: t}, nil
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month uint) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Time returns the instant as a UTC time.
func (c CalendarInstant) Time() time.Time {
	return c.t
}

// Convert re-expresses the instant in the zone r resolves at that instant.
func (c CalendarInstant) Convert(r Resolver) (ConvertedInstant, error) {
	abbrev, offset := r.OffsetAt(c.t)
	local := c.t.In(time.FixedZone(abbrev, offset))

	if y := local.Year(); y < MinYear || y > MaxYear {
		return ConvertedInstant{}, &InvalidInstantError{
			Field: "year", Value: y, Min: MinYear, Max: MaxYear, Converted: true,
		}
	}
	return ConvertedInstant{local: local, abbrev: abbrev, offset: offset}, nil
}

// ConvertedInstant is a CalendarInstant viewed in a target timezone.
type ConvertedInstant struct {
	local  time.Time
	abbrev string
	offset int
}

// Format renders the local date and time as YYYY-MM-DDTHH:MM:SS.
func (c ConvertedInstant) Format() string {
	return c.local.Format(Layout)
}

// Time returns the instant carrying the applied offset as its location.
func (c ConvertedInstant) Time() time.Time {
	return c.local
}

// Offset returns the applied offset east of UTC, in seconds.
func (c ConvertedInstant) Offset() int {
	return c.offset
}

// Abbrev returns the zone abbreviation in effect, e.g. "PST" or "PDT".
func (c ConvertedInstant) Abbrev() string {
	return c.abbrev
}
