package apperrors

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"
)

// TestErrorMessages covers the Error output of the value error types.
func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config literal", ConfigError{Message: "ehandlers: no logging sink configured"}, "ehandlers: no logging sink configured"},
		{"config formatted", NewConfigError("unknown backend %q (want one of %v)", "syslog", []string{"std", "zap"}), `unknown backend "syslog" (want one of [std zap])`},
		{"timeout", TimeoutError{Operation: "scenario run", Limit: 30 * time.Second}, `operation "scenario run" timed out after 30s`},
		{"timeout subsecond", TimeoutError{Operation: "slow lookup", Limit: 250 * time.Millisecond}, `operation "slow lookup" timed out after 250ms`},
		{"validation with field", ValidationError{Field: "key", Message: "must not be empty"}, `validation error for "key": must not be empty`},
		{"validation bare", ValidationError{Message: "too long"}, "too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestErrorsAs checks that each type survives %w wrapping.
func TestErrorsAs(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("startup: %w", NewConfigError("bad level"))
	var configErr ConfigError
	if !errors.As(wrapped, &configErr) || configErr.Message != "bad level" {
		t.Errorf("errors.As(ConfigError) failed on %v", wrapped)
	}

	wrapped = fmt.Errorf("run: %w", TimeoutError{Operation: "scenario run", Limit: time.Second})
	var timeoutErr TimeoutError
	if !errors.As(wrapped, &timeoutErr) || timeoutErr.Limit != time.Second {
		t.Errorf("errors.As(TimeoutError) failed on %v", wrapped)
	}

	wrapped = fmt.Errorf("check: %w", ValidationError{Field: "name", Message: "too long"})
	var validationErr ValidationError
	if !errors.As(wrapped, &validationErr) || validationErr.Field != "name" {
		t.Errorf("errors.As(ValidationError) failed on %v", wrapped)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	if WrapError(nil, "writing metrics") != nil {
		t.Error("WrapError(nil, ...) should return nil")
	}

	err := WrapError(context.DeadlineExceeded, "scenario %s", "slow lookup")
	if err.Error() != "scenario slow lookup: context deadline exceeded" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("wrapped error should keep the original in its chain")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped", WrapError(context.Canceled, "await"), true},
		{"chained cause", &ChainedError{Err: errors.New("unavailable"), Cause: context.DeadlineExceeded}, true},
		{"domain error", errors.New("division by zero"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	want := map[string]int{
		"ExitSuccess":       0,
		"ExitErrorGeneric":  1,
		"ExitErrorTimeout":  2,
		"ExitErrorMismatch": 3,
		"ExitErrorConfig":   4,
		"ExitErrorCanceled": 130,
	}
	got := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorMismatch": ExitErrorMismatch,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorCanceled": ExitErrorCanceled,
	}
	for name, code := range want {
		if got[name] != code {
			t.Errorf("%s = %d, want %d", name, got[name], code)
		}
	}
}

func TestNewValidationError(t *testing.T) {
	t.Parallel()
	err := NewValidationError("too long")
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatal("expected ValidationError")
	}
	if validationErr.Message != "too long" || err.Error() != "too long" {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestChainedError(t *testing.T) {
	t.Parallel()
	cause := errors.New("division by zero")
	substitute := ValidationError{Field: "ratio", Message: "cannot compute"}
	err := &ChainedError{Err: substitute, Cause: cause}

	if err.Error() != substitute.Error() {
		t.Errorf("expected substitute message, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Error("errors.As should find the substitute")
	}
	if Cause(err) != cause {
		t.Errorf("Cause() = %v, want %v", Cause(err), cause)
	}

	wrapped := WrapError(err, "loading")
	if Cause(wrapped) != cause {
		t.Error("Cause should see through %w wrapping")
	}
}

func TestCause_NoChain(t *testing.T) {
	t.Parallel()
	if c := Cause(errors.New("plain")); c != nil {
		t.Errorf("expected nil cause, got %v", c)
	}
	if c := Cause(nil); c != nil {
		t.Errorf("expected nil cause for nil error, got %v", c)
	}
}

func TestPanicError(t *testing.T) {
	t.Parallel()

	t.Run("string value", func(t *testing.T) {
		t.Parallel()
		err := &PanicError{Value: "boom", Stack: []byte("goroutine 1 [running]")}
		if err.Error() != "panic: boom" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if err.Unwrap() != nil {
			t.Error("non-error values should not unwrap")
		}
		if got := fmt.Sprintf("%v", err); got != "panic: boom" {
			t.Errorf("%%v = %q", got)
		}
		if got := fmt.Sprintf("%+v", err); !strings.Contains(got, "goroutine 1 [running]") {
			t.Errorf("%%+v should include the stack, got %q", got)
		}
	})

	t.Run("runtime error value", func(t *testing.T) {
		t.Parallel()
		var recovered any
		func() {
			defer func() { recovered = recover() }()
			var m map[string]int
			m["x"] = 1
		}()
		err := &PanicError{Value: recovered}
		var rtErr runtime.Error
		if !errors.As(err, &rtErr) {
			t.Error("errors.As should reach the runtime.Error")
		}
	})
}
