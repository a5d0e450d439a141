package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter implements Logger on top of a zap.Logger.
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter wraps an existing zap.Logger.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

// Log emits msg at the given level. CriticalLevel is written at error level
// with a severity field, since zap's DPanic and Fatal levels may terminate.
func (z *ZapAdapter) Log(level Level, msg string, fields ...Field) {
	lvl := zapcore.ErrorLevel
	extra := 0
	switch level {
	case DebugLevel:
		lvl = zapcore.DebugLevel
	case InfoLevel:
		lvl = zapcore.InfoLevel
	case WarnLevel:
		lvl = zapcore.WarnLevel
	case CriticalLevel:
		extra = 1
	}
	ce := z.logger.Check(lvl, msg)
	if ce == nil {
		return
	}
	zf := make([]zap.Field, 0, len(fields)+extra)
	if extra > 0 {
		zf = append(zf, zap.String("severity", CriticalLevel.String()))
	}
	ce.Write(append(zf, toZapFields(fields)...)...)
}

// Debug logs a debug message.
func (z *ZapAdapter) Debug(msg string, fields ...Field) { z.Log(DebugLevel, msg, fields...) }

// Info logs an informational message.
func (z *ZapAdapter) Info(msg string, fields ...Field) { z.Log(InfoLevel, msg, fields...) }

// Warn logs a warning.
func (z *ZapAdapter) Warn(msg string, fields ...Field) { z.Log(WarnLevel, msg, fields...) }

// Error logs an error message with the associated error.
func (z *ZapAdapter) Error(msg string, err error, fields ...Field) {
	z.logger.Error(msg, append([]zap.Field{zap.Error(err)}, toZapFields(fields)...)...)
}

// Printf logs a formatted message at info level.
func (z *ZapAdapter) Printf(format string, args ...any) {
	z.logger.Info(fmt.Sprintf(format, args...))
}

// Println logs the space-separated arguments at info level.
func (z *ZapAdapter) Println(args ...any) {
	z.logger.Info(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
