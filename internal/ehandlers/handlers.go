package ehandlers

import (
	"context"
	"errors"

	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
)

// Handler labels used in metrics.
const (
	handlerIntercept     = "intercept"
	handlerRaise         = "raise"
	handlerLog           = "log"
	handlerInterceptor   = "interceptor"
	handlerLogAndReturn  = "log_and_return"
	handlerRaiseIfReturn = "raise_if_return"
)

// Outcome labels used in metrics.
const (
	outcomePropagated  = "propagated"
	outcomeSubstituted = "substituted"
	outcomeReturned    = "returned"
	outcomeSynthesized = "synthesized"
	outcomeLogged      = "logged"
)

// site is one handling of one error: the configuration plus everything known
// about the call that produced the error.
type site struct {
	ctx     context.Context
	cfg     *config
	handler string
	source  string
	args    []any
}

func (s site) argValues() []any {
	if s.cfg.args != nil {
		return s.cfg.args
	}
	return s.args
}

// emit performs the single log emission for err.
func (s site) emit(err error) {
	args := s.argValues()
	msg, tmplErr := s.cfg.message(err, s.source, args)
	fields := s.cfg.fields(err, s.source, args)
	if tmplErr != nil {
		fields = append(fields, logging.String("template_error", tmplErr.Error()))
	}
	s.cfg.sink.Log(s.cfg.level, msg, fields...)
	recordSpanError(s.ctx, err, s.cfg.level)
}

// intercept logs err and returns it, or its substitute.
func (s site) intercept(err error) error {
	if err == nil {
		return nil
	}
	if cfgErr := s.cfg.validate(); cfgErr != nil {
		return errors.Join(cfgErr, err)
	}
	out, outcome := err, outcomePropagated
	if !s.cfg.substitute.IsZero() {
		sub, cfgErr := s.cfg.substitute.Build(err.Error())
		if cfgErr != nil {
			return errors.Join(cfgErr, err)
		}
		out, outcome = sub, outcomeSubstituted
		if s.cfg.fromErr {
			out = &apperrors.ChainedError{Err: sub, Cause: err}
		}
	}
	s.emit(err)
	s.cfg.metrics.observe(s.handler, outcome)
	return out
}

// raise builds the error described by spec, logs it and returns it.
func (s site) raise(spec ErrorSpec, msg string) error {
	if cfgErr := s.cfg.validate(); cfgErr != nil {
		return cfgErr
	}
	err, cfgErr := spec.Build(msg)
	if cfgErr != nil {
		return cfgErr
	}
	s.emit(err)
	s.cfg.metrics.observe(s.handler, outcomeSynthesized)
	return err
}

// log logs err without propagating it. Only configuration problems are
// returned.
func (s site) log(err error, outcome string) error {
	if err == nil {
		return nil
	}
	if cfgErr := s.cfg.validate(); cfgErr != nil {
		return cfgErr
	}
	s.emit(err)
	s.cfg.metrics.observe(s.handler, outcome)
	return nil
}

func newSite(ctx context.Context, opts []Option, handler string) site {
	cfg := newConfig(opts)
	source := cfg.source
	if source == "" {
		// newSite <- exported handler <- caller
		source = callerName(2)
	}
	return site{ctx: ctx, cfg: cfg, handler: handler, source: source}
}

// InterceptErrAndLog logs err once through the configured sink and returns
// the error the caller should propagate: err itself, or the configured
// substitute. With WithFromErr(true), the default, the substitute is wrapped
// in *apperrors.ChainedError so the original stays reachable as its cause.
//
// A nil err returns nil without logging. Configuration errors are returned
// joined with err and nothing is logged.
func InterceptErrAndLog(err error, opts ...Option) error {
	return newSite(context.Background(), opts, handlerIntercept).intercept(err)
}

// InterceptErrAndLogContext is InterceptErrAndLog that also records the
// error on the span carried by ctx.
func InterceptErrAndLogContext(ctx context.Context, err error, opts ...Option) error {
	return newSite(ctx, opts, handlerIntercept).intercept(err)
}

// RaiseErrAndLog builds the error described by spec, constructors receiving
// msg, logs it once and returns it. It is meant for failures detected by the
// caller rather than returned by a callee.
func RaiseErrAndLog(spec ErrorSpec, msg string, opts ...Option) error {
	return newSite(context.Background(), opts, handlerRaise).raise(spec, msg)
}

// RaiseErrAndLogContext is RaiseErrAndLog that also records the error on the
// span carried by ctx.
func RaiseErrAndLogContext(ctx context.Context, spec ErrorSpec, msg string, opts ...Option) error {
	return newSite(ctx, opts, handlerRaise).raise(spec, msg)
}

// LogErr logs err once and returns nil. It only returns an error when the
// options are invalid.
func LogErr(err error, opts ...Option) error {
	return newSite(context.Background(), opts, handlerLog).log(err, outcomeLogged)
}

// LogErrContext is LogErr that also records the error on the span carried by
// ctx.
func LogErrContext(ctx context.Context, err error, opts ...Option) error {
	return newSite(ctx, opts, handlerLog).log(err, outcomeLogged)
}
