package filter

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a line holding an invalid timestamp.
type Policy string

const (
	// PolicyAbort stops the run at the first invalid timestamp. Nothing of
	// the offending line is written.
	PolicyAbort Policy = "abort"

	// PolicySkip leaves invalid timestamps as they are and still converts the
	// rest of the line.
	PolicySkip Policy = "skip"

	// PolicyPassthrough writes the offending line unchanged.
	PolicyPassthrough Policy = "passthrough"
)

// DefaultPolicy is used when none is configured.
const DefaultPolicy = PolicyAbort

// Policies lists the valid policies.
func Policies() []Policy {
	return []Policy{PolicyAbort, PolicySkip, PolicyPassthrough}
}

// ParsePolicy validates a policy name. The empty string selects DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return DefaultPolicy, nil
	case PolicyAbort, PolicySkip, PolicyPassthrough:
		return p, nil
	default:
		return "", fmt.Errorf("invalid policy %q (must be abort, skip, or passthrough)", s)
	}
}
