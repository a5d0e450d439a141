package logging

import (
	"fmt"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// KitAdapter implements Logger on top of a go-kit logger. Levels are
// expressed with the go-kit level package so level.NewFilter keeps working.
type KitAdapter struct {
	logger kitlog.Logger
}

// NewKitAdapter wraps an existing go-kit logger.
func NewKitAdapter(logger kitlog.Logger) *KitAdapter {
	return &KitAdapter{logger: logger}
}

// Log emits msg at the given level.
func (k *KitAdapter) Log(lvl Level, msg string, fields ...Field) {
	var l kitlog.Logger
	switch lvl {
	case DebugLevel:
		l = level.Debug(k.logger)
	case InfoLevel:
		l = level.Info(k.logger)
	case WarnLevel:
		l = level.Warn(k.logger)
	case CriticalLevel:
		l = kitlog.With(level.Error(k.logger), "severity", CriticalLevel.String())
	default:
		l = level.Error(k.logger)
	}
	_ = l.Log(toKeyvals(msg, fields)...)
}

// Debug logs a debug message.
func (k *KitAdapter) Debug(msg string, fields ...Field) { k.Log(DebugLevel, msg, fields...) }

// Info logs an informational message.
func (k *KitAdapter) Info(msg string, fields ...Field) { k.Log(InfoLevel, msg, fields...) }

// Warn logs a warning.
func (k *KitAdapter) Warn(msg string, fields ...Field) { k.Log(WarnLevel, msg, fields...) }

// Error logs an error message with the associated error.
func (k *KitAdapter) Error(msg string, err error, fields ...Field) {
	k.Log(ErrorLevel, msg, append([]Field{Err(err)}, fields...)...)
}

// Printf logs a formatted message at info level.
func (k *KitAdapter) Printf(format string, args ...any) {
	k.Log(InfoLevel, fmt.Sprintf(format, args...))
}

// Println logs the space-separated arguments at info level.
func (k *KitAdapter) Println(args ...any) {
	k.Log(InfoLevel, strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func toKeyvals(msg string, fields []Field) []any {
	kv := make([]any, 0, 2+2*len(fields))
	kv = append(kv, "msg", msg)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
