// Package log wraps log/slog with component-scoped loggers and HTTP request logging.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger that stamps every record with its component.
type Logger struct {
	*slog.Logger
	root      *slog.Logger
	component string
}

// Config holds logger configuration. Format is "text" (default) or "json".
type Config struct {
	Level     slog.Level
	Format    string
	Component string
	Output    io.Writer
	Handler   slog.Handler
}

func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Format: "text", Component: ComponentApp, Output: os.Stdout}
}

// New builds a logger. An explicit Handler wins over Format and Output.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		out := config.Output
		if out == nil {
			out = os.Stdout
		}
		opts := &slog.HandlerOptions{Level: config.Level}
		if strings.EqualFold(config.Format, "json") {
			handler = slog.NewJSONHandler(out, opts)
		} else {
			handler = slog.NewTextHandler(out, opts)
		}
	}
	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	root := slog.New(handler)
	return &Logger{Logger: root.With(FieldComponent, component), root: root, component: component}
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), root: l.base().With(args...), component: l.component}
}

// WithComponent returns a child logger for another component, keeping the
// attributes added with With.
func (l *Logger) WithComponent(component string) *Logger {
	root := l.base()
	return &Logger{Logger: root.With(FieldComponent, component), root: root, component: component}
}

func (l *Logger) base() *slog.Logger {
	if l.root != nil {
		return l.root
	}
	return l.Logger
}

// LogFields logs at level with structured fields.
func (l *Logger) LogFields(ctx context.Context, level slog.Level, msg string, f LogFields) {
	l.Logger.Log(ctx, level, msg, f.ToSlice()...)
}

// SetDefault installs logger as the process-wide slog default.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

func (l *Logger) Component() string {
	return l.component
}
