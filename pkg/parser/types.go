// Package parser reads lines of text from files and streams.
package parser

// Line is one line of input with its terminator removed.
type Line struct {
	// Text is the line content without "\n" or "\r\n".
	Text string

	// Source names where the line came from: a file path, or "-" for stdin.
	Source string

	// LineNum is the 1-based line number within Source.
	LineNum int
}
