// Package logger provides the shared logging framework.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level aliases the zerolog level type.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config holds logger configuration.
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"` // json/console
	Output     string `json:"output" yaml:"output"` // stdout/stderr/file
	FilePath   string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	TimeFormat string `json:"time_format,omitempty" yaml:"time_format,omitempty"`
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init initializes the global logger. Subsequent calls are no-ops.
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel parses a level string.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, initializing it with defaults if needed.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info starts an info-level event.
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn starts a warn-level event.
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error starts an error-level event.
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal starts a fatal-level event.
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError starts an error-level event carrying err.
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// ModelLogger is the component logger for model building and solving.
type ModelLogger struct {
	base *zerolog.Logger
}

// NewModelLogger creates a model-building logger.
func NewModelLogger() *ModelLogger {
	l := Get().With().Str("component", "scheduler").Logger()
	return &ModelLogger{base: &l}
}

// StartBuild records the start of a model build.
func (l *ModelLogger) StartBuild(scheduleID string, physicians, days int) {
	l.base.Info().
		Str("schedule_id", scheduleID).
		Int("physicians", physicians).
		Int("days", days).
		Msg("building constraint model")
}

// GeneratorDone records completion of a single constraint generator.
func (l *ModelLogger) GeneratorDone(name string, constraints int) {
	l.base.Debug().
		Str("generator", name).
		Int("constraints", constraints).
		Msg("constraint group emitted")
}

// BuildComplete records completion of the model build.
func (l *ModelLogger) BuildComplete(scheduleID string, variables, constraints int) {
	l.base.Info().
		Str("schedule_id", scheduleID).
		Int("variables", variables).
		Int("constraints", constraints).
		Msg("constraint model ready")
}

// SolveComplete records the outcome of a solve.
func (l *ModelLogger) SolveComplete(scheduleID, status string, duration time.Duration, objective int64) {
	l.base.Info().
		Str("schedule_id", scheduleID).
		Str("status", status).
		Dur("duration", duration).
		Int64("objective", objective).
		Msg("solve finished")
}

// Infeasible records an infeasibility report with the constraint groups present.
func (l *ModelLogger) Infeasible(scheduleID string, groups []string) {
	l.base.Warn().
		Str("schedule_id", scheduleID).
		Strs("constraint_groups", groups).
		Msg("model infeasible")
}
