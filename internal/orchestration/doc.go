// Package orchestration runs the error handling scenarios concurrently,
// counts the log entries each one emits and aggregates the outcomes. It is
// decoupled from presentation via the ResultPresenter interface.
package orchestration
