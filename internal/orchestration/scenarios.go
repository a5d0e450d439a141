package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agbru/ehandlers/internal/ehandlers"
	apperrors "github.com/agbru/ehandlers/internal/errors"
)

// ErrServiceUnavailable is the substitute used by the chaining scenarios.
var ErrServiceUnavailable = errors.New("service unavailable")

// ZeroDivisionError is returned by Divide for a zero divisor.
type ZeroDivisionError struct{}

func (ZeroDivisionError) Error() string { return "division by zero" }

// KeyError is returned by Lookup for an unknown key.
type KeyError struct{ Key string }

func (e KeyError) Error() string { return fmt.Sprintf("%q", e.Key) }

// Operands are the inputs of Divide.
type Operands struct{ A, B int }

// Divide returns A/B, or ZeroDivisionError.
func Divide(o Operands) (int, error) {
	if o.B == 0 {
		return 0, ZeroDivisionError{}
	}
	return o.A / o.B, nil
}

var catalog = map[string]string{"a": "alpha", "b": "beta"}

// Lookup returns the catalog entry for key, or KeyError.
func Lookup(key string) (string, error) {
	v, ok := catalog[key]
	if !ok {
		return "", KeyError{Key: key}
	}
	return v, nil
}

// CheckLength is a validator: it returns a message when s is longer than
// five bytes and "" otherwise.
func CheckLength(s string) string {
	if len(s) > 5 {
		return "too long"
	}
	return ""
}

// slowLookup is Lookup behind a short, cancellable delay.
func slowLookup(ctx context.Context, key string) (string, error) {
	select {
	case <-time.After(time.Millisecond):
		return Lookup(key)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func expectErr(got, want error) error {
	if !errors.Is(got, want) {
		return fmt.Errorf("got error %v, want %v", got, want)
	}
	return nil
}

// DefaultScenarios returns the scenarios run by ehdemo.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "division by zero",
			Handler:     "Interceptor",
			Expectation: "original error returned, logged once",
			Run: func(_ context.Context, h *Harness) error {
				safeDivide := ehandlers.Interceptor(Divide, h.Options()...)
				v, err := safeDivide(Operands{A: 2, B: 0})
				if v != 0 || err != error(ZeroDivisionError{}) {
					return fmt.Errorf("got (%d, %v), want (0, %v)", v, err, ZeroDivisionError{})
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "successful division",
			Handler:     "Interceptor",
			Expectation: "result passes through, nothing logged",
			Run: func(_ context.Context, h *Harness) error {
				v, err := ehandlers.Interceptor(Divide, h.Options()...)(Operands{A: 6, B: 3})
				if v != 2 || err != nil {
					return fmt.Errorf("got (%d, %v), want (2, nil)", v, err)
				}
				return h.ExpectEntries(0)
			},
		},
		{
			Name:        "missing key",
			Handler:     "LogAndReturn",
			Expectation: "zero value returned without error, logged once",
			Run: func(_ context.Context, h *Harness) error {
				get := ehandlers.LogAndReturn(Lookup, h.Options()...)
				v, err := get("missing")
				if v != "" || err != nil {
					return fmt.Errorf("got (%q, %v), want (\"\", nil)", v, err)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "fallback value",
			Handler:     "LogAndReturn",
			Expectation: "configured output returned, logged once",
			Run: func(_ context.Context, h *Harness) error {
				v, err := ehandlers.LogAndReturn(Lookup, h.Options(ehandlers.WithOutput("unknown"))...)("missing")
				if v != "unknown" || err != nil {
					return fmt.Errorf("got (%q, %v), want (\"unknown\", nil)", v, err)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "validator rejects",
			Handler:     "Validator",
			Expectation: "ValidationError built from the message, logged once",
			Run: func(_ context.Context, h *Harness) error {
				check := ehandlers.Validator(CheckLength, ehandlers.Type(apperrors.NewValidationError), h.Options()...)
				_, err := check("this is far too long")
				var vErr apperrors.ValidationError
				if !errors.As(err, &vErr) || vErr.Message != "too long" {
					return fmt.Errorf("got error %v, want ValidationError \"too long\"", err)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "validator accepts",
			Handler:     "Validator",
			Expectation: "empty result passes through, nothing logged",
			Run: func(_ context.Context, h *Harness) error {
				check := ehandlers.Validator(CheckLength, ehandlers.Type(apperrors.NewValidationError), h.Options()...)
				v, err := check("ok")
				if v != "" || err != nil {
					return fmt.Errorf("got (%q, %v), want (\"\", nil)", v, err)
				}
				return h.ExpectEntries(0)
			},
		},
		{
			Name:        "chained substitute",
			Handler:     "InterceptErrAndLog",
			Expectation: "substitute returned with the original as cause",
			Run: func(ctx context.Context, h *Harness) error {
				original := KeyError{Key: "missing"}
				err := ehandlers.InterceptErrAndLogContext(ctx, original,
					h.Options(ehandlers.WithSubstitute(ehandlers.Instance(ErrServiceUnavailable)))...)
				if err := expectErr(err, ErrServiceUnavailable); err != nil {
					return err
				}
				if cause := apperrors.Cause(err); cause != error(original) {
					return fmt.Errorf("cause is %v, want %v", cause, original)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "unchained substitute",
			Handler:     "InterceptErrAndLog",
			Expectation: "substitute returned without cause",
			Run: func(ctx context.Context, h *Harness) error {
				original := KeyError{Key: "missing"}
				err := ehandlers.InterceptErrAndLogContext(ctx, original, h.Options(
					ehandlers.WithSubstitute(ehandlers.Type(apperrors.NewValidationError)),
					ehandlers.WithFromErr(false),
				)...)
				var vErr apperrors.ValidationError
				if !errors.As(err, &vErr) || errors.Is(err, original) {
					return fmt.Errorf("got error %v, want an unchained ValidationError", err)
				}
				if cause := apperrors.Cause(err); cause != nil {
					return fmt.Errorf("cause is %v, want none", cause)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "synthesized error",
			Handler:     "RaiseErrAndLog",
			Expectation: "error built from the message, logged once",
			Run: func(ctx context.Context, h *Harness) error {
				err := ehandlers.RaiseErrAndLogContext(ctx, ehandlers.Type(apperrors.NewValidationError), "quota exceeded", h.Options()...)
				if err == nil || err.Error() != "quota exceeded" {
					return fmt.Errorf("got error %v, want \"quota exceeded\"", err)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "log only",
			Handler:     "LogErr",
			Expectation: "nil returned, logged once",
			Run: func(ctx context.Context, h *Harness) error {
				if err := ehandlers.LogErrContext(ctx, ErrServiceUnavailable, h.Options()...); err != nil {
					return fmt.Errorf("got error %v, want nil", err)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "async lookup",
			Handler:     "InterceptorAsync",
			Expectation: "original error delivered on the channel, logged once",
			Run: func(ctx context.Context, h *Harness) error {
				get := ehandlers.InterceptorAsync(ehandlers.Go(slowLookup), h.Options()...)
				if _, err := ehandlers.Await(ctx, get(ctx, "missing")); err != error(KeyError{Key: "missing"}) {
					return fmt.Errorf("got error %v, want %v", err, KeyError{Key: "missing"})
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "recovered panic",
			Handler:     "Interceptor",
			Expectation: "panic returned as PanicError, logged once",
			Run: func(_ context.Context, h *Harness) error {
				rawDivide := func(o Operands) (int, error) { return o.A / o.B, nil }
				_, err := ehandlers.Interceptor(rawDivide, h.Options()...)(Operands{A: 1})
				var panicErr *apperrors.PanicError
				if !errors.As(err, &panicErr) {
					return fmt.Errorf("got error %v, want a PanicError", err)
				}
				return h.ExpectEntries(1)
			},
		},
		{
			Name:        "missing sink",
			Handler:     "InterceptErrAndLog",
			Expectation: "ConfigError returned, nothing logged",
			Run: func(_ context.Context, h *Harness) error {
				err := ehandlers.InterceptErrAndLog(ErrServiceUnavailable, h.Options(ehandlers.WithSink(nil))...)
				var cfgErr apperrors.ConfigError
				if !errors.As(err, &cfgErr) || !errors.Is(err, ErrServiceUnavailable) {
					return fmt.Errorf("got error %v, want a ConfigError joined with the original", err)
				}
				return h.ExpectEntries(0)
			},
		},
	}
}
