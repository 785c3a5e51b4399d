package detector

import (
	"fmt"
	"regexp"
)

// ShapeKind classifies what follows the seconds field of a timestamp.
type ShapeKind string

const (
	ShapeNone      ShapeKind = "none"      // nothing: "...T10:30:00 "
	ShapeMarker    ShapeKind = "marker"    // a UTC marker: "...T10:30:00Z"
	ShapeFraction  ShapeKind = "fraction"  // dot-led digits: "...T10:30:00.123"
	ShapeSeparated ShapeKind = "separated" // colon or comma led digits: "...T10:30:00:12"
	ShapeOffset    ShapeKind = "offset"    // explicit offset: "...T10:30:00+02:00"
	ShapeOther     ShapeKind = "other"     // letters or digits run on
)

// Shape is one observed timestamp tail.
type Shape struct {
	Kind ShapeKind

	// Separator and Digits describe fraction and separated tails.
	Separator string
	Digits    int

	// Literal is the marker text, or the run-on text for other shapes.
	Literal string
}

func (s Shape) String() string {
	switch s.Kind {
	case ShapeMarker:
		return fmt.Sprintf("marker %q", s.Literal)
	case ShapeFraction, ShapeSeparated:
		return fmt.Sprintf("%s %q + %d digits", s.Kind, s.Separator, s.Digits)
	case ShapeOther:
		return fmt.Sprintf("other %q", s.Literal)
	default:
		return string(s.Kind)
	}
}

// probe finds anything shaped like a timestamp, whatever its tail.
var probe = regexp.MustCompile(
	`(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})` +
		`(?:([.,:])(\d+))?` +
		`(Z|[+-]\d{2}(?::?\d{2})?)?` +
		`([A-Za-z0-9]*)`,
)

// Submatch indexes of the probe pattern.
const (
	probeYear = 1 + iota
	probeMonth
	probeDay
	probeHour
	probeMinute
	probeSecond
	probeSep
	probeDigits
	probeZone
	probeRest
)

// classify names the tail of a probe match. A fraction followed by a marker
// is reported by its fraction, since that part decides which rule applies.
func classify(groups []string) Shape {
	sep, digits, zone, rest := groups[probeSep], groups[probeDigits], groups[probeZone], groups[probeRest]

	switch {
	case zone != "" && zone != "Z":
		return Shape{Kind: ShapeOffset}
	case rest != "":
		return Shape{Kind: ShapeOther, Literal: sep + digits + zone + rest}
	case sep == ".":
		return Shape{Kind: ShapeFraction, Separator: sep, Digits: len(digits)}
	case sep != "":
		return Shape{Kind: ShapeSeparated, Separator: sep, Digits: len(digits)}
	case zone == "Z":
		return Shape{Kind: ShapeMarker, Literal: zone}
	default:
		return Shape{Kind: ShapeNone}
	}
}
