package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level is the severity of a log entry.
type Level int8

const (
	// DebugLevel is used for diagnostic entries.
	DebugLevel Level = iota
	// InfoLevel is used for informational entries.
	InfoLevel
	// WarnLevel is used for recoverable problems.
	WarnLevel
	// ErrorLevel is used for failures that need attention.
	ErrorLevel
	// CriticalLevel is used for failures that need immediate attention.
	// Adapters never terminate the process on this level.
	CriticalLevel
)

var levelNames = map[Level]string{
	DebugLevel:    "debug",
	InfoLevel:     "info",
	WarnLevel:     "warn",
	ErrorLevel:    "error",
	CriticalLevel: "critical",
}

// String returns the lower-case name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

// ParseLevel converts a level name into a Level.
// Accepted names are debug, info, warn (or warning), error and critical,
// case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "critical":
		return CriticalLevel, nil
	}
	return ErrorLevel, fmt.Errorf("unknown log level %q", s)
}

// Field represents a structured key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Bool creates a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Any creates a field holding an arbitrary value.
func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// Err creates a field with the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Sink is the logging destination used by the error handlers. It performs a
// single leveled emission per call.
type Sink interface {
	Log(level Level, msg string, fields ...Field)
}

// Logger is the full logging surface used by the application layer.
type Logger interface {
	Sink
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// ─────────────────────────────────────────────────────────────────────────────
// Zerolog
// ─────────────────────────────────────────────────────────────────────────────

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewDefaultLogger returns a zerolog-backed Logger writing to stderr with
// timestamps.
func NewDefaultLogger() *ZerologAdapter {
	return NewZerologAdapter(zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// NewLogger returns a zerolog-backed Logger writing JSON lines to w, tagged
// with the given component name.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	return NewZerologAdapter(zerolog.New(w).With().Timestamp().Str("component", component).Logger())
}

// Log emits msg at the given level.
func (z *ZerologAdapter) Log(level Level, msg string, fields ...Field) {
	var event *zerolog.Event
	switch level {
	case DebugLevel:
		event = z.logger.Debug()
	case InfoLevel:
		event = z.logger.Info()
	case WarnLevel:
		event = z.logger.Warn()
	case CriticalLevel:
		// zerolog's fatal and panic levels terminate the program.
		event = z.logger.Error().Str("severity", CriticalLevel.String())
	default:
		event = z.logger.Error()
	}
	z.applyFields(event, fields).Msg(msg)
}

// Debug logs a debug message.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) { z.Log(DebugLevel, msg, fields...) }

// Info logs an informational message.
func (z *ZerologAdapter) Info(msg string, fields ...Field) { z.Log(InfoLevel, msg, fields...) }

// Warn logs a warning.
func (z *ZerologAdapter) Warn(msg string, fields ...Field) { z.Log(WarnLevel, msg, fields...) }

// Error logs an error message with the associated error.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	z.applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

// Println logs the space-separated arguments at info level.
func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (z *ZerologAdapter) applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case uint64:
			event = event.Uint64(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		case []string:
			event = event.Strs(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

// ─────────────────────────────────────────────────────────────────────────────
// Standard library
// ─────────────────────────────────────────────────────────────────────────────

// StdLoggerAdapter implements Logger on top of the standard library logger.
type StdLoggerAdapter struct {
	logger *log.Logger
}

// NewStdLoggerAdapter wraps a *log.Logger.
func NewStdLoggerAdapter(logger *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger}
}

// Log emits a "[LEVEL] msg key=value" line.
func (s *StdLoggerAdapter) Log(level Level, msg string, fields ...Field) {
	s.logger.Printf("[%s] %s%s", strings.ToUpper(level.String()), msg, formatFields(fields))
}

// Debug logs a debug message.
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) { s.Log(DebugLevel, msg, fields...) }

// Info logs an informational message.
func (s *StdLoggerAdapter) Info(msg string, fields ...Field) { s.Log(InfoLevel, msg, fields...) }

// Warn logs a warning.
func (s *StdLoggerAdapter) Warn(msg string, fields ...Field) { s.Log(WarnLevel, msg, fields...) }

// Error logs an error message with the associated error.
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.logger.Printf("[ERROR] %s: %v%s", msg, err, formatFields(fields))
}

// Printf forwards to the underlying logger.
func (s *StdLoggerAdapter) Printf(format string, args ...any) { s.logger.Printf(format, args...) }

// Println forwards to the underlying logger.
func (s *StdLoggerAdapter) Println(args ...any) { s.logger.Println(args...) }

func formatFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// Nop
// ─────────────────────────────────────────────────────────────────────────────

type nopSink struct{}

func (nopSink) Log(Level, string, ...Field) {}

// Nop returns a Sink that discards every entry.
func Nop() Sink { return nopSink{} }

type levelFilter struct {
	next Sink
	min  Level
}

func (f levelFilter) Log(level Level, msg string, fields ...Field) {
	if level >= f.min {
		f.next.Log(level, msg, fields...)
	}
}

// MinLevel returns a Sink that drops entries below min, for backends without
// level filtering of their own.
func MinLevel(next Sink, min Level) Sink { return levelFilter{next: next, min: min} }
