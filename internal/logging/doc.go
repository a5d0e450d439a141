// Package logging provides a unified logging interface for the error handlers.
// It abstracts the underlying logging implementation, allowing consistent logging
// across components while supporting multiple backends (zerolog, zap, go-kit
// and the standard library logger).
//
// The handlers only depend on the Sink interface: a single leveled emission
// with a message and structured fields. Configuring the backend (outputs,
// formatters, rotation) stays with the caller.
package logging

//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks github.com/agbru/ehandlers/internal/logging Sink
