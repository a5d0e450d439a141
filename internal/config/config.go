// Package config defines the configuration of the ehdemo binary: command-line
// flags, EHANDLERS_ environment overrides and validation.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/multierr"

	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
)

// EnvPrefix is the prefix of every environment variable read by ParseConfig.
const EnvPrefix = "EHANDLERS_"

// Supported logging backends.
const (
	BackendZerolog = "zerolog"
	BackendZap     = "zap"
	BackendKit     = "kit"
	BackendStd     = "std"
)

// Backends lists the accepted values of -log-backend.
var Backends = []string{BackendZerolog, BackendZap, BackendKit, BackendStd}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// LogBackend selects the logging library the handlers write through.
	LogBackend string
	// LogLevel is the minimum level the backend emits.
	LogLevel string
	// Component is attached to every log entry.
	Component string
	// Annotation is added to every handled error's message.
	Annotation string
	// Traceback adds stack and error chain fields to log entries.
	Traceback bool
	// Metrics prints the handler counters after the report.
	Metrics bool
	// NoColor disables colored output.
	NoColor bool
	// Quiet suppresses the report; only the exit code tells the outcome.
	Quiet bool
	// Timeout bounds the whole scenario run.
	Timeout time.Duration
}

// Level returns the parsed LogLevel.
func (c AppConfig) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// Validate checks the configuration and reports every problem at once. Each
// problem is an apperrors.ConfigError; multierr.Errors splits them apart.
func (c AppConfig) Validate() error {
	var err error
	if !isBackend(c.LogBackend) {
		err = multierr.Append(err, apperrors.NewConfigError(
			"unknown log backend %q (want one of %s)", c.LogBackend, strings.Join(Backends, ", ")))
	}
	if _, lerr := logging.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, apperrors.NewConfigError("%v", lerr))
	}
	if strings.TrimSpace(c.Component) == "" {
		err = multierr.Append(err, apperrors.NewConfigError("component must not be empty"))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout))
	}
	return err
}

func isBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// ParseConfig parses command-line arguments, applies environment overrides
// for flags that were not set explicitly, and validates the result.
// Priority: CLI flags > environment variables > defaults.
//
// A -help request is reported as flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errWriter, "Runs the error handling scenarios and reports how each one behaved.\n\n")
		fs.PrintDefaults()
	}

	config := AppConfig{}
	fs.StringVar(&config.LogBackend, "log-backend", BackendZerolog, "Logging backend ("+strings.Join(Backends, ", ")+").")
	fs.StringVar(&config.LogLevel, "log-level", "debug", "Minimum log level (debug, info, warn, error, critical).")
	fs.StringVar(&config.Component, "component", "ehdemo", "Component name attached to log entries.")
	fs.StringVar(&config.Annotation, "annotate", "", "Annotation added to every handled error.")
	fs.BoolVar(&config.Traceback, "traceback", false, "Add stack and error chain fields to log entries.")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print handler counters in Prometheus text format.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Suppress the report.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Maximum duration of the scenario run.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}
