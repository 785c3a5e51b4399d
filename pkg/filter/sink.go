package filter

import (
	"bufio"
	"io"
)

// Sink receives output lines in order.
type Sink interface {
	// WriteLine writes one line. The sink adds the terminator.
	WriteLine(line string) error

	// Flush forces buffered lines out.
	Flush() error
}

// WriterSink writes newline-terminated lines through a buffer.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink creates a sink on w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// WriteLine implements Sink.
func (s *WriterSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Flush implements Sink.
func (s *WriterSink) Flush() error {
	return s.w.Flush()
}

// Discard is a Sink that drops every line.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteLine(string) error { return nil }
func (discard) Flush() error           { return nil }
