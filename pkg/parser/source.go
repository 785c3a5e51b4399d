package parser

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
)

// StdinName is the source name that stands for standard input.
const StdinName = "-"

// ReaderSource implements LineSource over a single reader. Lines may be of
// any length.
type ReaderSource struct {
	name    string
	reader  *bufio.Reader
	closer  io.Closer
	lineNum int
	done    bool
}

// NewReaderSource creates a LineSource reading r, reporting lines as coming
// from name. If r is an io.Closer it is closed by Close.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	s := &ReaderSource{
		name:   name,
		reader: bufio.NewReaderSize(r, 64*1024),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next returns the next line or io.EOF.
func (s *ReaderSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	text, err := s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, &SourceError{Op: "read", Source: s.name, LineNum: s.lineNum, Err: err}
	}
	if err == io.EOF {
		s.done = true
		// Nothing follows the last terminator.
		if text == "" {
			return nil, io.EOF
		}
	}

	s.lineNum++
	return &Line{Text: trimEOL(text), Source: s.name, LineNum: s.lineNum}, nil
}

// Name returns the source name.
func (s *ReaderSource) Name() string {
	return s.name
}

// Close releases the underlying reader.
func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// FileSource implements LineSource over a sequence of files, read one after
// another. A path of "-" reads the stdin reader given to NewFileSource.
type FileSource struct {
	files []string
	stdin io.Reader

	current   *ReaderSource
	fileIndex int
}

// NewFileSource creates a LineSource that reads the given files in order.
func NewFileSource(files []string, stdin io.Reader) *FileSource {
	return &FileSource{
		files:     files,
		stdin:     stdin,
		fileIndex: -1,
	}
}

// Next returns the next line, moving on to the next file at the end of each.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	for {
		if s.current == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		line, err := s.current.Next(ctx)
		if err != io.EOF {
			return line, err
		}

		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	if path == StdinName {
		if s.stdin == nil {
			return &SourceError{Op: "open", Source: StdinName, Err: errors.New("no standard input available")}
		}
		// Closing the source must leave the process stdin open.
		s.current = NewReaderSource(StdinName, io.NopCloser(s.stdin))
		return nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return &SourceError{Op: "open", Source: path, Err: err}
	}
	s.current = NewReaderSource(path, f)
	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}

// trimEOL drops a trailing "\n" or "\r\n".
func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
