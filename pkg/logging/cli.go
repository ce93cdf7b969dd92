// Package logging provides the slog handler used for CLI output: human
// readable, colored by severity, attributes rendered inline.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorDim    = "\033[2m"
)

// CLIHandler is a custom slog.Handler for terminal output.
type CLIHandler struct {
	writer io.Writer
	level  slog.Level
	group  string
}

func NewCLIHandler(w io.Writer, level slog.Level) *CLIHandler {
	return &CLIHandler{
		writer: w,
		level:  level,
	}
}

func (h *CLIHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *CLIHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	switch {
	case r.Level >= slog.LevelError:
		sb.WriteString(colorRed + "error" + colorReset + " ")
	case r.Level >= slog.LevelWarn:
		sb.WriteString(colorYellow + "warn" + colorReset + " ")
	case r.Level < slog.LevelInfo:
		sb.WriteString(colorDim + "debug" + colorReset + " ")
	}

	if h.group != "" {
		sb.WriteString("[" + h.group + "] ")
	}
	sb.WriteString(r.Message)

	r.Attrs(func(a slog.Attr) bool {
		sb.WriteString(fmt.Sprintf(" %s=%v", a.Key, a.Value))
		return true
	})

	_, err := fmt.Fprintln(h.writer, sb.String())
	return err
}

func (h *CLIHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *CLIHandler) WithGroup(name string) slog.Handler {
	return &CLIHandler{
		writer: h.writer,
		level:  h.level,
		group:  name,
	}
}

// SetDefault installs the CLI handler as the default slog logger.
func SetDefault(level string) {
	h := NewCLIHandler(os.Stderr, ParseLevel(level))
	slog.SetDefault(slog.New(h))
}

// ParseLevel converts a string log level to slog.Level.
// Unrecognized strings default to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
