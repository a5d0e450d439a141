package config

import (
	"bytes"
	"errors"
	"flag"
	"testing"
	"time"

	"go.uber.org/multierr"

	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
)

func TestParseConfig_Defaults(t *testing.T) {
	var errBuf bytes.Buffer
	cfg, err := ParseConfig("ehdemo", nil, &errBuf)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.LogBackend != BackendZerolog {
		t.Errorf("LogBackend = %q, want %q", cfg.LogBackend, BackendZerolog)
	}
	if cfg.Level() != logging.DebugLevel {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	if cfg.Component != "ehdemo" {
		t.Errorf("Component = %q, want ehdemo", cfg.Component)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Traceback || cfg.Metrics || cfg.NoColor || cfg.Quiet {
		t.Errorf("boolean flags should default to false: %+v", cfg)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	var errBuf bytes.Buffer
	cfg, err := ParseConfig("ehdemo", []string{
		"-log-backend", "zap", "-log-level", "warning", "-component", "svc",
		"-annotate", "demo", "-traceback", "-metrics", "-no-color", "-q", "-timeout", "5s",
	}, &errBuf)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := AppConfig{
		LogBackend: BackendZap,
		LogLevel:   "warning",
		Component:  "svc",
		Annotation: "demo",
		Traceback:  true,
		Metrics:    true,
		NoColor:    true,
		Quiet:      true,
		Timeout:    5 * time.Second,
	}
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}
	if cfg.Level() != logging.WarnLevel {
		t.Errorf("Level() = %v, want warn", cfg.Level())
	}
}

func TestParseConfig_Help(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := ParseConfig("ehdemo", []string{"-help"}, &errBuf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("ParseConfig(-help) error = %v, want flag.ErrHelp", err)
	}
	if !bytes.Contains(errBuf.Bytes(), []byte("Usage: ehdemo")) {
		t.Errorf("usage not printed: %q", errBuf.String())
	}
}

func TestParseConfig_UnexpectedArgs(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := ParseConfig("ehdemo", []string{"extra"}, &errBuf)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := ParseConfig("ehdemo", []string{"-log-backend", "syslog", "-log-level", "loud", "-timeout", "0s"}, &errBuf)
	if err == nil {
		t.Fatal("expected an error")
	}
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), err)
	}
	for _, e := range errs {
		var cfgErr apperrors.ConfigError
		if !errors.As(e, &cfgErr) {
			t.Errorf("error %v is not a ConfigError", e)
		}
	}
	if !bytes.Contains(errBuf.Bytes(), []byte("Configuration error")) {
		t.Errorf("error not reported on errWriter: %q", errBuf.String())
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"LOG_BACKEND", "KIT")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "error")
	t.Setenv(EnvPrefix+"TRACEBACK", "yes")
	t.Setenv(EnvPrefix+"TIMEOUT", "2m")
	t.Setenv(EnvPrefix+"QUIET", "1")

	var errBuf bytes.Buffer
	cfg, err := ParseConfig("ehdemo", []string{"-log-level", "info"}, &errBuf)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.LogBackend != BackendKit {
		t.Errorf("LogBackend = %q, want kit", cfg.LogBackend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, the flag must win over the environment", cfg.LogLevel)
	}
	if !cfg.Traceback || !cfg.Quiet {
		t.Errorf("boolean overrides not applied: %+v", cfg)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
	}
}

func TestParseConfig_EnvAliasedFlag(t *testing.T) {
	t.Setenv(EnvPrefix+"QUIET", "false")

	var errBuf bytes.Buffer
	cfg, err := ParseConfig("ehdemo", []string{"-q"}, &errBuf)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if !cfg.Quiet {
		t.Error("-q must win over EHANDLERS_QUIET")
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"no", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}
