package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Process exit statuses of the demo binary.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates an observed behavior differed from the expected one.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a configuration error, such as an invalid flag value
// or an inconsistent handler option. It is returned immediately and is never
// routed through a logging sink.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError in the manner of fmt.Sprintf.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. Field is optional;
// errors synthesized from a validator's return value only carry a Message.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError without a field name.
// Its signature makes it usable directly as an error constructor.
func NewValidationError(msg string) error {
	return ValidationError{Message: msg}
}

// TimeoutError represents an operation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ChainedError is a substitute error that records the error it replaced.
// Error reports the substitute only; both errors stay reachable through
// errors.Is and errors.As.
type ChainedError struct {
	// Err is the substitute error presented to the caller.
	Err error
	// Cause is the original error that was intercepted.
	Cause error
}

// Error returns the message of the substitute error.
func (e *ChainedError) Error() string { return e.Err.Error() }

// Unwrap returns the substitute followed by the cause.
func (e *ChainedError) Unwrap() []error { return []error{e.Err, e.Cause} }

// Cause returns the original error recorded by the outermost ChainedError in
// err's tree, or nil when err was not substituted with chaining.
func Cause(err error) error {
	var chained *ChainedError
	if errors.As(err, &chained) {
		return chained.Cause
	}
	return nil
}

// PanicError is a panic recovered from a wrapped function.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
	// Stack is the goroutine stack captured at recovery time.
	Stack []byte
}

// Error returns a description of the panic value.
func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap returns the panic value when it is itself an error (runtime errors
// included), so errors.As can reach it.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Format implements fmt.Formatter; %+v appends the captured stack.
func (e *PanicError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, e.Error())
			_, _ = io.WriteString(s, "\n")
			_, _ = s.Write(e.Stack)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// WrapError prefixes err with a formatted context message, keeping err
// reachable through errors.Is and errors.As. It returns nil for a nil err.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
