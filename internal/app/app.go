package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/ehandlers/internal/cli"
	"github.com/agbru/ehandlers/internal/config"
	"github.com/agbru/ehandlers/internal/ehandlers"
	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/orchestration"
	"github.com/agbru/ehandlers/internal/ui"
)

// Application represents the ehdemo application instance.
type Application struct {
	Config    config.AppConfig
	Scenarios []orchestration.Scenario
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithScenarios replaces the default scenarios.
func WithScenarios(s []orchestration.Scenario) AppOption {
	return func(a *Application) { a.Scenarios = s }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Scenarios == nil {
		app.Scenarios = orchestration.DefaultScenarios()
	}

	programName := "ehdemo"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the scenarios and reports on out. Log entries go to the
// application's ErrWriter so the report stays readable.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	sink, err := NewSink(a.Config, a.ErrWriter)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error creating logger: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer sink.Sync()

	handlerOpts := []ehandlers.Option{}
	if a.Config.Annotation != "" {
		handlerOpts = append(handlerOpts, ehandlers.WithAnnotation(a.Config.Annotation))
	}
	if a.Config.Traceback {
		handlerOpts = append(handlerOpts, ehandlers.WithTraceback())
	}

	var registry *prometheus.Registry
	if a.Config.Metrics {
		registry = prometheus.NewRegistry()
		m, err := ehandlers.NewMetrics(registry)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error registering metrics: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		handlerOpts = append(handlerOpts, ehandlers.WithMetrics(m))
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var presenter orchestration.ResultPresenter = cli.CLIResultPresenter{}
	reportOut := out
	if a.Config.Quiet {
		presenter = orchestration.NullPresenter{}
		reportOut = io.Discard
	} else {
		cli.DisplayExecutionConfig(a.Config, out)
	}

	results := orchestration.ExecuteScenarios(ctx, a.Scenarios, sink, handlerOpts...)
	code := orchestration.AnalyzeScenarioResults(ctx, results, presenter, reportOut)
	if code == apperrors.ExitErrorTimeout {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", apperrors.TimeoutError{Operation: "scenario run", Limit: a.Config.Timeout})
	}

	if registry != nil {
		if err := cli.DisplayMetrics(out, registry); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
			if code == apperrors.ExitSuccess {
				code = apperrors.ExitErrorGeneric
			}
		}
	}
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
