package app

import (
	"io"
	"log"

	kitlog "github.com/go-kit/log"
	kitlevel "github.com/go-kit/log/level"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agbru/ehandlers/internal/config"
	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
)

// Sink is the sink handed to the handlers, plus a flush hook for backends
// that buffer.
type Sink interface {
	logging.Sink
	Sync()
}

type syncSink struct {
	logging.Sink
	sync func()
}

func (s syncSink) Sync() {
	if s.sync != nil {
		s.sync()
	}
}

// NewSink builds the logger selected by cfg.LogBackend, writing to w and
// filtering below cfg.LogLevel.
func NewSink(cfg config.AppConfig, w io.Writer) (Sink, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}

	switch cfg.LogBackend {
	case config.BackendZerolog:
		logger := zerolog.New(w).With().Timestamp().Str("component", cfg.Component).Logger().
			Level(zerologLevel(level))
		return syncSink{Sink: logging.NewZerologAdapter(logger)}, nil

	case config.BackendZap:
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			zapLevel(level),
		)
		logger := zap.New(core).With(zap.String("component", cfg.Component))
		return syncSink{Sink: logging.NewZapAdapter(logger), sync: func() { _ = logger.Sync() }}, nil

	case config.BackendKit:
		logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
		logger = kitlevel.NewFilter(logger, kitLevel(level))
		logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "component", cfg.Component)
		return syncSink{Sink: logging.NewKitAdapter(logger)}, nil

	case config.BackendStd:
		logger := log.New(w, cfg.Component+" ", log.LstdFlags)
		return syncSink{Sink: logging.MinLevel(logging.NewStdLoggerAdapter(logger), level)}, nil
	}
	return nil, apperrors.NewConfigError("unknown log backend %q", cfg.LogBackend)
}

func zerologLevel(l logging.Level) zerolog.Level {
	switch l {
	case logging.DebugLevel:
		return zerolog.DebugLevel
	case logging.InfoLevel:
		return zerolog.InfoLevel
	case logging.WarnLevel:
		return zerolog.WarnLevel
	}
	return zerolog.ErrorLevel
}

func zapLevel(l logging.Level) zapcore.Level {
	switch l {
	case logging.DebugLevel:
		return zapcore.DebugLevel
	case logging.InfoLevel:
		return zapcore.InfoLevel
	case logging.WarnLevel:
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}

func kitLevel(l logging.Level) kitlevel.Option {
	switch l {
	case logging.DebugLevel:
		return kitlevel.AllowDebug()
	case logging.InfoLevel:
		return kitlevel.AllowInfo()
	case logging.WarnLevel:
		return kitlevel.AllowWarn()
	}
	return kitlevel.AllowError()
}
