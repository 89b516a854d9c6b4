// Package logging builds slog handlers for the prodrules CLI.
//
// Three formats are supported: json and logfmt use the standard slog
// handlers, text uses charmbracelet/log for human-oriented terminal output.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Format names a log output format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"
)

var (
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	AllFormats = []string{string(FormatJSON), string(FormatLogfmt), string(FormatText)}
	AllLevels  = []string{"debug", "info", "warn", "error"}
)

// New creates a logger writing to w using level and format names.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	fmtName, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return slog.New(NewHandler(w, lvl, fmtName)), nil
}

// NewHandler creates a handler for an already validated level and format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	switch format {
	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case FormatText:
		return newCharmHandler(w, level)
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
}

// ParseLevel maps debug, info, warn (or warning) and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// ParseFormat validates a format name.
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if slices.Contains([]Format{FormatJSON, FormatLogfmt, FormatText}, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

func newCharmHandler(w io.Writer, level slog.Level) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(int32(level)),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.StampMilli,
	})
	logger.SetColorProfile(termenv.ColorProfile())
	return logger
}
