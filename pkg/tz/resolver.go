// Package tz validates UTC calendar instants and re-expresses them in a
// target timezone.
package tz

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	// Embed the zoneinfo database so named zones resolve on hosts without one.
	_ "time/tzdata"
)

// Resolver reports the UTC offset a timezone applies at a given instant.
// Implementations are immutable and safe for concurrent use.
type Resolver interface {
	// OffsetAt returns the zone abbreviation and offset east of UTC, in
	// seconds, in effect at t.
	OffsetAt(t time.Time) (abbrev string, seconds int)

	// String names the timezone.
	String() string
}

// MaxOffset is the largest fixed offset accepted, in either direction.
const MaxOffset = 18 * time.Hour

// ErrUnknownTimezone is returned when a timezone name cannot be resolved.
var ErrUnknownTimezone = errors.New("unknown timezone")

// FixedOffset applies the same offset at every instant.
type FixedOffset struct {
	name    string
	seconds int
}

// UTC is the zero offset.
var UTC = NewFixedOffset(0)

// NewFixedOffset returns a resolver for a constant offset east of UTC.
func NewFixedOffset(seconds int) FixedOffset {
	return FixedOffset{name: offsetName(seconds), seconds: seconds}
}

// OffsetAt implements Resolver.
func (f FixedOffset) OffsetAt(time.Time) (string, int) {
	return f.name, f.seconds
}

// Seconds returns the offset east of UTC.
func (f FixedOffset) Seconds() int {
	return f.seconds
}

func (f FixedOffset) String() string {
	return f.name
}

func offsetName(seconds int) string {
	if seconds == 0 {
		return "UTC"
	}
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, seconds/60%60)
}

// Zone resolves offsets from a location's transition rules, so daylight
// saving time is applied where the zone observes it.
type Zone struct {
	loc *time.Location
}

// NewZone wraps a location.
func NewZone(loc *time.Location) Zone {
	return Zone{loc: loc}
}

// LoadZone loads an IANA zone such as "America/Los_Angeles".
func LoadZone(name string) (Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("%w %q: %v", ErrUnknownTimezone, name, err)
	}
	return NewZone(loc), nil
}

// OffsetAt implements Resolver.
func (z Zone) OffsetAt(t time.Time) (string, int) {
	return t.In(z.loc).Zone()
}

// Location returns the wrapped location.
func (z Zone) Location() *time.Location {
	return z.loc
}

func (z Zone) String() string {
	return z.loc.String()
}

var offsetRe = regexp.MustCompile(`^(?i:UTC|GMT)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// Parse selects a resolver from a timezone name:
//
//	""  or "Local"                  the system's local zone
//	"UTC", "GMT" or "Z"             zero offset
//	"-08:00", "+0530", "UTC-8"      fixed offset
//	"Europe/Paris"                  named zone with DST rules
func Parse(name string) (Resolver, error) {
	s := strings.TrimSpace(name)

	switch strings.ToUpper(s) {
	case "", "LOCAL":
		return NewZone(time.Local), nil
	case "UTC", "GMT", "Z":
		return UTC, nil
	}

	if off, ok, err := ParseOffset(s); ok {
		if err != nil {
			return nil, err
		}
		return off, nil
	}

	return LoadZone(s)
}

// ParseOffset parses a fixed offset such as "-08:00", "+0530", "-8" or
// "UTC+05:30". ok is false when s is not shaped like an offset.
func ParseOffset(s string) (off FixedOffset, ok bool, err error) {
	m := offsetRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return FixedOffset{}, false, nil
	}

	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if minutes >= 60 {
		return FixedOffset{}, true, fmt.Errorf("%w %q: minutes must be below 60", ErrUnknownTimezone, s)
	}

	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if d > MaxOffset {
		return FixedOffset{}, true, fmt.Errorf("%w %q: offset exceeds %s", ErrUnknownTimezone, s, MaxOffset)
	}
	if m[1] == "-" {
		d = -d
	}
	return NewFixedOffset(int(d / time.Second)), true, nil
}
