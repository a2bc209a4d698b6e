// Package logging builds the slog loggers used across td.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Environment variables read by [ConfigFromEnv].
const (
	EnvLevel     = "TD_LOG_LEVEL"
	EnvFormat    = "TD_LOG_FORMAT"
	EnvAddSource = "TD_LOG_ADD_SOURCE"
)

// ErrInvalidFormat reports a log format other than text or json.
var ErrInvalidFormat = errors.New("invalid log format")

// Config selects level and output format.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // text, json
	AddSource bool
}

// DefaultConfig logs info and above as text.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatText}
}

// ConfigFromEnv overlays TD_LOG_* variables from env onto base.
func ConfigFromEnv(env map[string]string, base Config) Config {
	if v := env[EnvLevel]; v != "" {
		base.Level = v
	}

	if v := env[EnvFormat]; v != "" {
		base.Format = v
	}

	if v := env[EnvAddSource]; v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			base.AddSource = b
		}
	}

	return base
}

// ValidateFormat accepts text and json (case-insensitive).
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q (want text|json)", ErrInvalidFormat, format)
	}
}

// New returns a logger writing to w, tagged with app=td.
// Unknown formats fall back to text.
func New(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("app", "td"))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithRun tags logger with a fresh time-ordered run ID so the lines of one
// invocation can be grouped. The logger is returned unchanged if no ID can
// be generated.
func WithRun(logger *slog.Logger) *slog.Logger {
	id, err := uuid.NewV7()
	if err != nil {
		return logger
	}

	return logger.With(slog.String("run", id.String()))
}

// Component returns logger scoped to one part of the program.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With(slog.String("component", name))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
