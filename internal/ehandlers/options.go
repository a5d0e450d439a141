package ehandlers

import (
	"reflect"
	"text/template"

	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
)

// DefaultLevel is the severity used when no WithLevel option is given.
const DefaultLevel = logging.ErrorLevel

// config is the per-wrapper (or per-handler-call) option set. It is built
// once and only read afterwards.
type config struct {
	sink       logging.Sink
	level      logging.Level
	annotation string
	withArgs   bool
	args       []any
	substitute ErrorSpec
	fromErr    bool
	source     string
	traceback  bool
	tmpl       *template.Template
	tmplErr    error
	recover    bool
	metrics    *Metrics

	output    any
	hasOutput bool

	raiseTypes  []reflect.Type
	raiseWhen   func(any) bool
	raiseByNone bool
}

// Option configures a handler call or a wrapper.
type Option func(*config)

func newConfig(opts []Option) *config {
	c := &config{
		level:   DefaultLevel,
		fromErr: true,
		recover: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// validate reports configuration problems that must fail the call before
// anything is logged.
func (c *config) validate() error {
	if c.sink == nil {
		return apperrors.NewConfigError("ehandlers: no logging sink configured")
	}
	if c.tmplErr != nil {
		return apperrors.NewConfigError("ehandlers: invalid message template: %v", c.tmplErr)
	}
	return nil
}

// WithSink sets the logging sink. It is required.
func WithSink(sink logging.Sink) Option {
	return func(c *config) { c.sink = sink }
}

// WithLevel sets the severity of the emitted entry.
func WithLevel(level logging.Level) Option {
	return func(c *config) { c.level = level }
}

// WithAnnotation adds free text to the log message, in front of the error.
func WithAnnotation(text string) Option {
	return func(c *config) { c.annotation = text }
}

// WithArgs includes the wrapped function's argument in the log entry.
func WithArgs() Option {
	return func(c *config) { c.withArgs = true }
}

// WithArgValues includes the given values in the log entry. It is meant for
// the direct handler calls, which have no wrapped argument to capture.
func WithArgValues(args ...any) Option {
	return func(c *config) {
		c.withArgs = true
		c.args = args
	}
}

// WithSubstitute replaces intercepted errors with the error described by
// spec. Constructors receive the original error's message.
func WithSubstitute(spec ErrorSpec) Option {
	return func(c *config) { c.substitute = spec }
}

// WithFromErr controls whether a substitute records the intercepted error as
// its cause. Defaults to true.
func WithFromErr(chain bool) Option {
	return func(c *config) { c.fromErr = chain }
}

// WithSource overrides the function name shown in log messages.
func WithSource(name string) Option {
	return func(c *config) { c.source = name }
}

// WithTraceback adds the error's stack and unwrap chain to the log entry.
func WithTraceback() Option {
	return func(c *config) { c.traceback = true }
}

// WithTemplate replaces the default message layout with a text/template
// executed against MessageData.
func WithTemplate(text string) Option {
	return func(c *config) {
		c.tmpl, c.tmplErr = template.New("ehandlers").Option("missingkey=error").Parse(text)
	}
}

// WithoutRecover lets panics in wrapped functions propagate instead of
// converting them into *apperrors.PanicError.
func WithoutRecover() Option {
	return func(c *config) { c.recover = false }
}

// WithMetrics counts handled errors and recovered panics.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithOutput sets the value LogAndReturn hands back when the wrapped function
// fails. The dynamic type of v must be exactly the wrapped function's result
// type, or implement it when the result is an interface: WithOutput(0) suits
// an int result but not a float64 one, which needs WithOutput(0.0). Untyped
// constants take their default type. A mismatch is reported as a ConfigError,
// joined with the original error, on every failing call and nothing is
// logged. WithOutput[any](nil) selects the zero value.
func WithOutput[T any](v T) Option {
	return func(c *config) {
		c.output = v
		c.hasOutput = true
	}
}

// RaiseByType sets the dynamic types of return values that make
// RaiseIfReturn fail, given as sample values. A nil pointer to an interface
// type, such as (*fmt.Stringer)(nil), selects every type implementing it.
// Defaults to string.
//
// Only nil values and the empty string count as "nothing returned"; with
// RaiseByType(true) a validator returning false fails, and with
// RaiseByType(0) so does one returning 0.
func RaiseByType(samples ...any) Option {
	return func(c *config) {
		c.raiseTypes = c.raiseTypes[:0]
		for _, s := range samples {
			t := reflect.TypeOf(s)
			if t == nil {
				continue
			}
			if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
				t = t.Elem()
			}
			c.raiseTypes = append(c.raiseTypes, t)
		}
	}
}

// RaiseWhen replaces the type-based trigger of RaiseIfReturn with an explicit
// predicate over the return value. Nil values and the empty string never
// reach the predicate; they are governed by RaiseByNone.
func RaiseWhen(pred func(v any) bool) Option {
	return func(c *config) { c.raiseWhen = pred }
}

// RaiseByNone makes RaiseIfReturn fail on zero return values too.
func RaiseByNone() Option {
	return func(c *config) { c.raiseByNone = true }
}
