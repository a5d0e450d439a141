// Package ehandlers wraps function calls to intercept their errors, report
// them to a caller-supplied logging sink, and shape what the caller sees.
//
// Three handlers work on errors directly:
//
//   - InterceptErrAndLog logs an error and returns it, or a substitute that
//     records the original as its cause.
//   - RaiseErrAndLog builds an error from an ErrorSpec, logs it and returns it.
//   - LogErr logs an error and lets the caller carry on.
//
// Three wrappers apply them around a function:
//
//   - Interceptor returns the original or substituted error after logging.
//   - LogAndReturn logs the error and returns a fallback value instead.
//   - RaiseIfReturn turns a validator's return value into an error.
//
// Each wrapper comes in three shapes: Func for plain calls, CtxFunc for
// blocking calls that take a context, and AsyncFunc for calls that deliver
// their result on a channel. All shapes share the same handling logic and
// emit exactly one log entry per failed invocation.
//
// Example:
//
//	load := ehandlers.Interceptor(loadUser,
//		ehandlers.WithSink(logger),
//		ehandlers.WithAnnotation("loading user"),
//		ehandlers.WithSubstitute(ehandlers.Instance(ErrUserUnavailable)),
//	)
//	u, err := load(id) // err wraps ErrUserUnavailable, apperrors.Cause(err) is the original
package ehandlers
