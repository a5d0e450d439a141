package orchestration

import (
	"io"
	"time"
)

// ScenarioResult encapsulates the outcome of a single scenario run.
type ScenarioResult struct {
	// Name identifies the scenario.
	Name string
	// Handler is the ehandlers entry point the scenario exercises.
	Handler string
	// Expectation describes the behavior the scenario checks.
	Expectation string
	// Entries is the number of log entries the handlers emitted.
	Entries int
	// Duration is the time taken by the scenario.
	Duration time.Duration
	// Err is nil when the handlers behaved as expected.
	Err error
}

// ResultPresenter defines the interface for presenting scenario results.
// This interface decouples the orchestration layer from presentation
// concerns, allowing different output formats without modifying the
// orchestration logic.
type ResultPresenter interface {
	// PresentScenarioTable displays one row per scenario.
	PresentScenarioTable(results []ScenarioResult, out io.Writer)
}

// NullPresenter is a no-op ResultPresenter, used in quiet mode.
type NullPresenter struct{}

// PresentScenarioTable does nothing.
func (NullPresenter) PresentScenarioTable([]ScenarioResult, io.Writer) {}
