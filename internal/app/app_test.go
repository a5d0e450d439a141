package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/ehandlers/internal/config"
	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
	"github.com/agbru/ehandlers/internal/orchestration"
)

func newApp(t *testing.T, errBuf *bytes.Buffer, args ...string) *Application {
	t.Helper()
	app, err := New(append([]string{"ehdemo", "-no-color"}, args...), errBuf)
	require.NoError(t, err)
	return app
}

func TestNew_Help(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"ehdemo", "-h"}, &errBuf)
	assert.True(t, IsHelpError(err))
	assert.Contains(t, errBuf.String(), "-log-backend")
}

func TestNew_InvalidConfig(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"ehdemo", "-log-backend", "syslog"}, &errBuf)
	var cfgErr apperrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.False(t, IsHelpError(err))
}

func TestRun_Backends(t *testing.T) {
	tests := []struct {
		backend string
		wantLog string
	}{
		{config.BackendZerolog, `"component":"ehdemo"`},
		{config.BackendZap, `"component":"ehdemo"`},
		{config.BackendKit, "component=ehdemo"},
		{config.BackendStd, "ehdemo "},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			var out, errBuf bytes.Buffer
			app := newApp(t, &errBuf, "-log-backend", tt.backend)

			code := app.Run(context.Background(), &out)

			assert.Equal(t, apperrors.ExitSuccess, code, "report:\n%s\nlogs:\n%s", out.String(), errBuf.String())
			assert.Contains(t, out.String(), "Global Status: Success")
			assert.Contains(t, out.String(), "division by zero")
			assert.Contains(t, errBuf.String(), tt.wantLog)
			assert.Contains(t, errBuf.String(), "ZeroDivisionError: division by zero")
		})
	}
}

func TestRun_LevelFiltering(t *testing.T) {
	var out, errBuf bytes.Buffer
	app := newApp(t, &errBuf, "-log-backend", "std", "-log-level", "critical")

	code := app.Run(context.Background(), &out)

	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.NotContains(t, errBuf.String(), "[ERROR]")
}

func TestRun_Quiet(t *testing.T) {
	var out, errBuf bytes.Buffer
	app := newApp(t, &errBuf, "-q")

	code := app.Run(context.Background(), &out)

	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Empty(t, out.String())
}

func TestRun_AnnotationAndTraceback(t *testing.T) {
	var out, errBuf bytes.Buffer
	app := newApp(t, &errBuf, "-log-backend", "zap", "-annotate", "demo run", "-traceback")

	code := app.Run(context.Background(), &out)

	assert.Equal(t, apperrors.ExitSuccess, code)
	logs := errBuf.String()
	assert.Contains(t, logs, "demo run: ZeroDivisionError")
	assert.Contains(t, logs, `"trace":`)
	assert.Contains(t, logs, `"chain":`)
}

func TestRun_Metrics(t *testing.T) {
	var out, errBuf bytes.Buffer
	app := newApp(t, &errBuf, "-metrics")

	code := app.Run(context.Background(), &out)

	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, out.String(), "--- Handler Metrics ---")
	assert.Contains(t, out.String(), `ehandlers_handled_errors_total{handler="interceptor",outcome="propagated"}`)
	assert.Contains(t, out.String(), `ehandlers_recovered_panics_total{handler="interceptor"} 1`)
}

func TestRun_MisbehavingScenario(t *testing.T) {
	var out, errBuf bytes.Buffer
	app, err := New([]string{"ehdemo", "-no-color"}, &errBuf, WithScenarios([]orchestration.Scenario{{
		Name:    "always wrong",
		Handler: "LogErr",
		Run: func(context.Context, *orchestration.Harness) error {
			return errors.New("logged 0 entries, want 1")
		},
	}}))
	require.NoError(t, err)

	code := app.Run(context.Background(), &out)

	assert.Equal(t, apperrors.ExitErrorMismatch, code)
	assert.Contains(t, out.String(), "1 of 1 scenarios misbehaved")
	assert.Contains(t, errBuf.String(), "unexpected behavior")
}

func TestRun_Timeout(t *testing.T) {
	var out, errBuf bytes.Buffer
	app, err := New([]string{"ehdemo", "-no-color", "-timeout", "10ms"}, &errBuf, WithScenarios([]orchestration.Scenario{{
		Name: "blocks",
		Run: func(ctx context.Context, _ *orchestration.Harness) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}}))
	require.NoError(t, err)

	code := app.Run(context.Background(), &out)

	assert.Equal(t, apperrors.ExitErrorTimeout, code)
	assert.Contains(t, errBuf.String(), `operation "scenario run" timed out after 10ms`)
}

func TestNewSink_UnknownBackend(t *testing.T) {
	_, err := NewSink(config.AppConfig{LogBackend: "syslog", LogLevel: "info"}, &bytes.Buffer{})
	var cfgErr apperrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewSink(config.AppConfig{LogBackend: "zap", LogLevel: "loud"}, &bytes.Buffer{})
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewSink_Filters(t *testing.T) {
	for _, backend := range config.Backends {
		t.Run(backend, func(t *testing.T) {
			var buf bytes.Buffer
			sink, err := NewSink(config.AppConfig{LogBackend: backend, LogLevel: "warn", Component: "c"}, &buf)
			require.NoError(t, err)

			sink.Log(logging.InfoLevel, "below threshold")
			sink.Log(logging.ErrorLevel, "above threshold")
			sink.Sync()

			assert.NotContains(t, buf.String(), "below threshold")
			assert.Contains(t, buf.String(), "above threshold")
		})
	}
}

func TestVersion(t *testing.T) {
	assert.True(t, HasVersionFlag([]string{"-q", "--version"}))
	assert.False(t, HasVersionFlag([]string{"-q"}))

	var out bytes.Buffer
	PrintVersion(&out)
	assert.True(t, strings.HasPrefix(out.String(), "ehdemo "+Version))
}
