// Package log builds the structured diagnostics logger. Diagnostics go to
// stderr so they never mix with filtered output.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Format represents the log output format.
type Format string

// Format values.
const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

// DefaultLevel keeps a clean run silent.
const DefaultLevel = "warn"

// ParseFormat validates a format name. The empty string selects pretty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPretty:
		return FormatPretty, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid log format %q (must be pretty or json)", s)
	}
}

// ParseLevel validates a level name. The empty string selects DefaultLevel.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ParseLevel(DefaultLevel)
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "off", "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q (must be debug, info, warn, error, or off)", s)
	}
}

// New creates a logger writing to w in the given format at the given level.
// Pretty output is colored only when w is a terminal.
func New(w io.Writer, format Format, level zerolog.Level) zerolog.Logger {
	out := w
	if format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: time.TimeOnly,
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// NewFromStrings parses format and level names and creates a logger.
func NewFromStrings(w io.Writer, format, level string) (zerolog.Logger, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return zerolog.Nop(), err
	}
	l, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return New(w, f, l), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
