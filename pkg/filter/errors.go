package filter

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying run failures with errors.Is.
var (
	ErrRead             = errors.New("read error")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// ReadError reports an input that could not be opened or read.
type ReadError struct {
	Source  string
	LineNum int
	Err     error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%v: %v", ErrRead, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrRead, e.Err}
}

// InvalidTimestampError locates a timestamp whose calendar values are
// impossible.
type InvalidTimestampError struct {
	Source  string
	LineNum int

	// Column is the 1-based byte column of the timestamp.
	Column int

	// Text is the timestamp as it appears in the input.
	Text string

	Err error
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v %q: %v", e.Source, e.LineNum, e.Column, ErrInvalidTimestamp, e.Text, e.Err)
}

func (e *InvalidTimestampError) Unwrap() []error {
	return []error{ErrInvalidTimestamp, e.Err}
}
