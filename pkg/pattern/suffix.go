package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// RuleKind enumerates the shapes a timestamp suffix may take.
type RuleKind string

const (
	// RuleKindMarker matches a fixed literal such as "Z".
	RuleKindMarker RuleKind = "marker"

	// RuleKindFraction matches a separator followed by one or more digits.
	RuleKindFraction RuleKind = "fraction"

	// RuleKindSeparated matches a separator followed by a bounded digit run.
	RuleKindSeparated RuleKind = "separated"
)

// AllowedSeparators lists the characters fraction and separated rules may use.
const AllowedSeparators = ".:,"

// MaxSeparatedDigits is the widest digit run a separated rule may declare.
const MaxSeparatedDigits = 9

// SuffixRule describes one accepted shape for the material that follows the
// seconds field of a timestamp. The suffix is never interpreted numerically.
type SuffixRule struct {
	Kind RuleKind

	// Literal is the marker text for marker rules.
	Literal string

	// Separators holds the characters allowed before the digit run.
	Separators string

	// MinDigits and MaxDigits bound the digit run of separated rules.
	MinDigits int
	MaxDigits int
}

// Marker returns a rule matching the literal s.
func Marker(s string) SuffixRule {
	return SuffixRule{Kind: RuleKindMarker, Literal: s}
}

// Fraction returns a rule matching one of seps followed by any number of digits.
func Fraction(seps string) SuffixRule {
	return SuffixRule{Kind: RuleKindFraction, Separators: seps}
}

// Separated returns a rule matching one of seps followed by a bounded digit run.
func Separated(seps string, minDigits, maxDigits int) SuffixRule {
	return SuffixRule{Kind: RuleKindSeparated, Separators: seps, MinDigits: minDigits, MaxDigits: maxDigits}
}

// Validate reports whether the rule can be compiled.
func (r SuffixRule) Validate() error {
	switch r.Kind {
	case RuleKindMarker:
		if r.Literal == "" {
			return errors.New("marker rule requires a literal")
		}
		if unicode.IsDigit(rune(r.Literal[0])) {
			return fmt.Errorf("marker literal %q must not start with a digit", r.Literal)
		}
		return nil
	case RuleKindFraction, RuleKindSeparated:
		if err := validateSeparators(r.Separators); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid kind %q (must be marker, fraction, or separated)", r.Kind)
	}

	if r.Kind == RuleKindSeparated {
		if r.MinDigits < 1 {
			return errors.New("min_digits must be >= 1")
		}
		if r.MaxDigits < r.MinDigits {
			return fmt.Errorf("max_digits %d is below min_digits %d", r.MaxDigits, r.MinDigits)
		}
		if r.MaxDigits > MaxSeparatedDigits {
			return fmt.Errorf("max_digits %d exceeds %d", r.MaxDigits, MaxSeparatedDigits)
		}
	}
	return nil
}

func validateSeparators(seps string) error {
	if seps == "" {
		return errors.New("at least one separator is required")
	}
	for _, c := range seps {
		if !strings.ContainsRune(AllowedSeparators, c) {
			return fmt.Errorf("separator %q not allowed (use any of %q)", c, AllowedSeparators)
		}
	}
	return nil
}

// bounded reports whether the rule caps its digit run. A bounded rule must not
// be followed by another digit, otherwise the candidate is not a timestamp.
func (r SuffixRule) bounded() bool {
	return r.Kind == RuleKindSeparated
}

// expr returns the regular expression for the rule body.
func (r SuffixRule) expr() string {
	switch r.Kind {
	case RuleKindMarker:
		return regexp.QuoteMeta(r.Literal)
	case RuleKindFraction:
		return separatorClass(r.Separators) + `\d+`
	default:
		return fmt.Sprintf(`%s\d{%d,%d}`, separatorClass(r.Separators), r.MinDigits, r.MaxDigits)
	}
}

func separatorClass(seps string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, c := range seps {
		sb.WriteString(regexp.QuoteMeta(string(c)))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (r SuffixRule) String() string {
	switch r.Kind {
	case RuleKindMarker:
		return fmt.Sprintf("marker %q", r.Literal)
	case RuleKindFraction:
		return fmt.Sprintf("fraction %q + digits", r.Separators)
	case RuleKindSeparated:
		return fmt.Sprintf("separated %q + %d-%d digits", r.Separators, r.MinDigits, r.MaxDigits)
	default:
		return string(r.Kind)
	}
}

// RuleSet is an ordered list of suffix rules. Earlier rules win when more
// than one could match at the same position.
type RuleSet []SuffixRule

// DefaultRules returns the built-in suffix grammar: a "Z" marker, dot-led
// fractional seconds of any width, and "." or ":" followed by 2-6 digits.
func DefaultRules() RuleSet {
	return RuleSet{
		Marker("Z"),
		Fraction("."),
		Separated(".:", 2, 6),
	}
}

// Validate checks every rule in the set.
func (rs RuleSet) Validate() error {
	for i, r := range rs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("suffix rule %d: %w", i, err)
		}
	}
	return nil
}
