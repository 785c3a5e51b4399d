package parser

import (
	"fmt"
)

// SourceError reports a failure to open or read an input.
type SourceError struct {
	// Op is "open" or "read".
	Op string

	// Source names the input that failed.
	Source string

	// LineNum is the last line read successfully, 0 if none.
	LineNum int

	Err error
}

func (e *SourceError) Error() string {
	if e.Op == "read" {
		return fmt.Sprintf("reading %s after line %d: %v", e.Source, e.LineNum, e.Err)
	}
	return fmt.Sprintf("opening input file %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
