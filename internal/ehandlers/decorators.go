package ehandlers

import (
	"context"
	"errors"
	"runtime/debug"

	apperrors "github.com/agbru/ehandlers/internal/errors"
)

// ErrNoResult is returned by Await when an async function closes its channel
// without delivering a result.
var ErrNoResult = errors.New("ehandlers: async function closed its channel without a result")

// Func is a plain function of one argument. Functions of several arguments
// take a struct.
type Func[A, T any] func(A) (T, error)

// CtxFunc is a blocking function that honours a context.
type CtxFunc[A, T any] func(context.Context, A) (T, error)

// Result is the outcome of an AsyncFunc.
type Result[T any] struct {
	Value T
	Err   error
}

// AsyncFunc starts an operation and delivers its single Result on the
// returned channel.
type AsyncFunc[A, T any] func(context.Context, A) <-chan Result[T]

// Plain lifts a function that cannot fail into a Func.
func Plain[A, T any](fn func(A) T) Func[A, T] {
	return func(a A) (T, error) { return fn(a), nil }
}

// Go turns a CtxFunc into an AsyncFunc running it on its own goroutine. A
// panic in fn is delivered as *apperrors.PanicError.
func Go[A, T any](fn CtxFunc[A, T]) AsyncFunc[A, T] {
	return func(ctx context.Context, a A) <-chan Result[T] {
		ch := make(chan Result[T], 1)
		go func() {
			defer close(ch)
			defer func() {
				if r := recover(); r != nil {
					ch <- Result[T]{Err: &apperrors.PanicError{Value: r, Stack: debug.Stack()}}
				}
			}()
			v, err := fn(ctx, a)
			ch <- Result[T]{Value: v, Err: err}
		}()
		return ch
	}
}

// Await waits for the result on ch or for ctx to be done.
func Await[T any](ctx context.Context, ch <-chan Result[T]) (T, error) {
	var zero T
	select {
	case r, ok := <-ch:
		if !ok {
			return zero, ErrNoResult
		}
		return r.Value, r.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// settleFunc decides the outcome of one invocation from what the wrapped
// function produced.
type settleFunc[A, T any] func(s site, v T, err error) (T, error)

// wrapper holds what a wrapper captures at construction time.
type wrapper struct {
	cfg     *config
	handler string
	source  string
}

func newWrapper(fn any, handler string, opts []Option) wrapper {
	cfg := newConfig(opts)
	source := cfg.source
	if source == "" {
		source = funcName(fn)
	}
	return wrapper{cfg: cfg, handler: handler, source: source}
}

func (w wrapper) site(ctx context.Context, arg any) site {
	s := site{ctx: ctx, cfg: w.cfg, handler: w.handler, source: w.source}
	if w.cfg.withArgs {
		s.args = []any{arg}
	}
	return s
}

// invoke runs call, converting a panic into *apperrors.PanicError unless
// recovery is disabled.
func invoke[T any](w wrapper, call func() (T, error)) (out T, err error) {
	if w.cfg.recover {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				out, err = zero, &apperrors.PanicError{Value: r, Stack: debug.Stack()}
				w.cfg.metrics.observePanic(w.handler)
			}
		}()
	}
	return call()
}

func nilFuncError(handler string) error {
	return apperrors.NewConfigError("ehandlers: %s wraps a nil function", handler)
}

func wrapFunc[A, T any](fn Func[A, T], w wrapper, settle settleFunc[A, T]) Func[A, T] {
	return func(a A) (T, error) {
		if fn == nil {
			var zero T
			return zero, nilFuncError(w.handler)
		}
		v, err := invoke(w, func() (T, error) { return fn(a) })
		return settle(w.site(context.Background(), a), v, err)
	}
}

func wrapCtxFunc[A, T any](fn CtxFunc[A, T], w wrapper, settle settleFunc[A, T]) CtxFunc[A, T] {
	return func(ctx context.Context, a A) (T, error) {
		if fn == nil {
			var zero T
			return zero, nilFuncError(w.handler)
		}
		v, err := invoke(w, func() (T, error) { return fn(ctx, a) })
		return settle(w.site(ctx, a), v, err)
	}
}

// wrapAsyncFunc forwards the inner result once it arrives, after settling
// it. The returned channel always yields exactly one Result.
func wrapAsyncFunc[A, T any](fn AsyncFunc[A, T], w wrapper, settle settleFunc[A, T]) AsyncFunc[A, T] {
	return func(ctx context.Context, a A) <-chan Result[T] {
		out := make(chan Result[T], 1)
		if fn == nil {
			out <- Result[T]{Err: nilFuncError(w.handler)}
			close(out)
			return out
		}
		inner, err := invoke(w, func() (<-chan Result[T], error) { return fn(ctx, a), nil })
		if err != nil {
			var zero T
			v, err := settle(w.site(ctx, a), zero, err)
			out <- Result[T]{Value: v, Err: err}
			close(out)
			return out
		}
		if inner == nil {
			out <- Result[T]{Err: apperrors.NewConfigError("ehandlers: %s: async function %s returned a nil channel", w.handler, w.source)}
			close(out)
			return out
		}
		go func() {
			defer close(out)
			v, err := Await(ctx, inner)
			v, err = settle(w.site(ctx, a), v, err)
			out <- Result[T]{Value: v, Err: err}
		}()
		return out
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Interceptor
// ─────────────────────────────────────────────────────────────────────────────

func interceptSettle[A, T any](s site, v T, err error) (T, error) {
	if err == nil {
		return v, nil
	}
	var zero T
	return zero, s.intercept(err)
}

// Interceptor wraps fn so that a failing call is logged once and then
// returns the original error, or the configured substitute. Successful
// calls pass through untouched.
func Interceptor[A, T any](fn Func[A, T], opts ...Option) Func[A, T] {
	return wrapFunc(fn, newWrapper(fn, handlerInterceptor, opts), interceptSettle[A, T])
}

// InterceptorCtx is Interceptor for context-aware functions. Errors are also
// recorded on the span carried by the context.
func InterceptorCtx[A, T any](fn CtxFunc[A, T], opts ...Option) CtxFunc[A, T] {
	return wrapCtxFunc(fn, newWrapper(fn, handlerInterceptor, opts), interceptSettle[A, T])
}

// InterceptorAsync is Interceptor for asynchronous functions. The handling
// happens once the inner result arrives.
func InterceptorAsync[A, T any](fn AsyncFunc[A, T], opts ...Option) AsyncFunc[A, T] {
	return wrapAsyncFunc(fn, newWrapper(fn, handlerInterceptor, opts), interceptSettle[A, T])
}

// ─────────────────────────────────────────────────────────────────────────────
// LogAndReturn
// ─────────────────────────────────────────────────────────────────────────────

func outputOf[T any](c *config) (T, error) {
	var zero T
	if !c.hasOutput || c.output == nil {
		return zero, nil
	}
	v, ok := c.output.(T)
	if !ok {
		return zero, apperrors.NewConfigError("ehandlers: fallback value of type %T does not fit result type %T", c.output, zero)
	}
	return v, nil
}

func logAndReturnSettle[A, T any](s site, v T, err error) (T, error) {
	if err == nil {
		return v, nil
	}
	out, cfgErr := outputOf[T](s.cfg)
	if cfgErr != nil {
		return out, errors.Join(cfgErr, err)
	}
	if cfgErr := s.log(err, outcomeReturned); cfgErr != nil {
		return out, errors.Join(cfgErr, err)
	}
	return out, nil
}

// LogAndReturn wraps fn so that a failing call is logged once and returns
// the WithOutput value (the zero value by default) with a nil error.
func LogAndReturn[A, T any](fn Func[A, T], opts ...Option) Func[A, T] {
	return wrapFunc(fn, newWrapper(fn, handlerLogAndReturn, opts), logAndReturnSettle[A, T])
}

// LogAndReturnCtx is LogAndReturn for context-aware functions.
func LogAndReturnCtx[A, T any](fn CtxFunc[A, T], opts ...Option) CtxFunc[A, T] {
	return wrapCtxFunc(fn, newWrapper(fn, handlerLogAndReturn, opts), logAndReturnSettle[A, T])
}

// LogAndReturnAsync is LogAndReturn for asynchronous functions.
func LogAndReturnAsync[A, T any](fn AsyncFunc[A, T], opts ...Option) AsyncFunc[A, T] {
	return wrapAsyncFunc(fn, newWrapper(fn, handlerLogAndReturn, opts), logAndReturnSettle[A, T])
}

// ─────────────────────────────────────────────────────────────────────────────
// RaiseIfReturn
// ─────────────────────────────────────────────────────────────────────────────

func raiseIfReturnSettle[A, T any](exc ErrorSpec) settleFunc[A, T] {
	return func(s site, v T, err error) (T, error) {
		if err != nil {
			// A recovered panic was caught by the wrapper and is handled
			// like an intercepted error; the validator's own errors are not.
			var panicErr *apperrors.PanicError
			if errors.As(err, &panicErr) {
				var zero T
				return zero, s.intercept(err)
			}
			return v, err
		}
		payload, hit := s.cfg.triggers(v)
		if !hit {
			return v, nil
		}
		var zero T
		return zero, s.raise(exc, payload)
	}
}

// RaiseIfReturn wraps a validator whose return value signals failure. When
// the value matches the trigger (by default a non-empty string; see
// RaiseByType, RaiseWhen and RaiseByNone) an error is built from exc with the
// value as message, logged once and returned. Other values pass through. An
// error returned by fn itself is passed through without logging; a panic in
// fn is recovered and logged like an intercepted error.
func RaiseIfReturn[A, T any](fn Func[A, T], exc ErrorSpec, opts ...Option) Func[A, T] {
	return wrapFunc(fn, newWrapper(fn, handlerRaiseIfReturn, opts), raiseIfReturnSettle[A, T](exc))
}

// RaiseIfReturnCtx is RaiseIfReturn for context-aware functions.
func RaiseIfReturnCtx[A, T any](fn CtxFunc[A, T], exc ErrorSpec, opts ...Option) CtxFunc[A, T] {
	return wrapCtxFunc(fn, newWrapper(fn, handlerRaiseIfReturn, opts), raiseIfReturnSettle[A, T](exc))
}

// RaiseIfReturnAsync is RaiseIfReturn for asynchronous functions.
func RaiseIfReturnAsync[A, T any](fn AsyncFunc[A, T], exc ErrorSpec, opts ...Option) AsyncFunc[A, T] {
	return wrapAsyncFunc(fn, newWrapper(fn, handlerRaiseIfReturn, opts), raiseIfReturnSettle[A, T](exc))
}

// Validator is RaiseIfReturn for a validator that cannot fail on its own,
// such as func(string) string returning "" when the input is acceptable. The
// log entries name fn rather than an adapter.
func Validator[A, T any](fn func(A) T, exc ErrorSpec, opts ...Option) Func[A, T] {
	if fn == nil {
		return RaiseIfReturn[A, T](nil, exc, opts...)
	}
	opts = append([]Option{WithSource(funcName(fn))}, opts...)
	return RaiseIfReturn(Plain(fn), exc, opts...)
}
