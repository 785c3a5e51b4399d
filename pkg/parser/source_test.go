package parser

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func drain(t *testing.T, src LineSource) []*Line {
	t.Helper()
	var lines []*Line
	for {
		line, err := src.Next(context.Background())
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		lines = append(lines, line)
	}
}

func TestReaderSource_Next(t *testing.T) {
	src := NewReaderSource("input", strings.NewReader("first\r\nsecond\n\nlast without newline"))
	defer src.Close()

	lines := drain(t, src)

	want := []string{"first", "second", "", "last without newline"}
	if len(lines) != len(want) {
		t.Fatalf("Got %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line %d Text = %q, want %q", i, lines[i].Text, w)
		}
		if lines[i].LineNum != i+1 {
			t.Errorf("line %d LineNum = %d, want %d", i, lines[i].LineNum, i+1)
		}
		if lines[i].Source != "input" {
			t.Errorf("line %d Source = %q, want input", i, lines[i].Source)
		}
	}
}

func TestReaderSource_LongLine(t *testing.T) {
	long := "2024-01-29T23:21:38Z " + strings.Repeat("x", 2*1024*1024)
	src := NewReaderSource("big", strings.NewReader(long+"\nnext\n"))

	lines := drain(t, src)
	if len(lines) != 2 {
		t.Fatalf("Got %d lines, want 2", len(lines))
	}
	if lines[0].Text != long {
		t.Errorf("long line was altered: got %d bytes, want %d", len(lines[0].Text), len(long))
	}
	if lines[1].Text != "next" || lines[1].LineNum != 2 {
		t.Errorf("second line = %+v", *lines[1])
	}
}

func TestReaderSource_ReadError(t *testing.T) {
	boom := errors.New("disk gone")
	src := NewReaderSource("broken", io.MultiReader(strings.NewReader("ok\n"), iotest.ErrReader(boom)))

	if line, err := src.Next(context.Background()); err != nil || line.Text != "ok" {
		t.Fatalf("first Next() = %v, %v", line, err)
	}
	_, err := src.Next(context.Background())
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error %T should be a *SourceError", err)
	}
	if srcErr.Op != "read" || srcErr.Source != "broken" || srcErr.LineNum != 1 || !errors.Is(err, boom) {
		t.Errorf("SourceError = %+v", *srcErr)
	}
}

func TestReaderSource_ContextCancellation(t *testing.T) {
	src := NewReaderSource("input", strings.NewReader("a\nb\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestFileSource_MultipleFilesAndStdin(t *testing.T) {
	dir := t.TempDir()
	file1 := filepath.Join(dir, "one.log")
	file2 := filepath.Join(dir, "two.log")
	if err := os.WriteFile(file1, []byte("1a\n1b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file2, []byte("2a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource([]string{file1, StdinName, file2}, strings.NewReader("in\n"))
	defer src.Close()

	lines := drain(t, src)

	type want struct {
		text   string
		source string
		num    int
	}
	expected := []want{
		{"1a", file1, 1},
		{"1b", file1, 2},
		{"in", StdinName, 1},
		{"2a", file2, 1},
	}
	if len(lines) != len(expected) {
		t.Fatalf("Got %d lines, want %d", len(lines), len(expected))
	}
	for i, w := range expected {
		got := lines[i]
		if got.Text != w.text || got.Source != w.source || got.LineNum != w.num {
			t.Errorf("line %d = %+v, want %+v", i, *got, w)
		}
	}
}

func TestFileSource_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "empty.log")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource([]string{file}, nil)
	defer src.Close()

	if lines := drain(t, src); len(lines) != 0 {
		t.Errorf("Got %d lines from empty file, want 0", len(lines))
	}
}

func TestFileSource_FileNotFound(t *testing.T) {
	src := NewFileSource([]string{"/nonexistent/file.log"}, nil)
	defer src.Close()

	_, err := src.Next(context.Background())
	if err == nil || err == io.EOF {
		t.Fatalf("Next() error = %v, want open error", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", err)
	}
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error %T should be a *SourceError", err)
	}
	if srcErr.Op != "open" || srcErr.Source != "/nonexistent/file.log" {
		t.Errorf("SourceError = %+v", *srcErr)
	}
}

func TestFileSource_StdinWithoutReader(t *testing.T) {
	src := NewFileSource([]string{StdinName}, nil)
	if _, err := src.Next(context.Background()); err == nil || err == io.EOF {
		t.Errorf("Next() error = %v, want error", err)
	}
}

func TestFileSource_Close(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.log")
	if err := os.WriteFile(file, []byte("a\nb\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource([]string{file}, nil)
	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
