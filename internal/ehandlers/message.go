package ehandlers

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	pkgerrors "github.com/pkg/errors"

	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
)

// MessageData is the value WithTemplate templates are executed against.
type MessageData struct {
	Func       string
	ErrType    string
	Err        string
	Annotation string
	Args       string
}

// ErrorString renders err as "TypeName: message".
func ErrorString(err error) string {
	return typeName(err) + ": " + err.Error()
}

// FormatMessage builds the default log line:
//
//	<func> TypeName: message
//	<func> annotation: TypeName: message
func FormatMessage(err error, funcName, annotation string) string {
	if annotation == "" {
		return fmt.Sprintf("<%s> %s", funcName, ErrorString(err))
	}
	return fmt.Sprintf("<%s> %s: %s", funcName, annotation, ErrorString(err))
}

// typeName returns the dynamic type name of err without package path or
// pointer markers.
func typeName(err error) string {
	t := reflect.TypeOf(err)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func formatArgs(args []any) string {
	if len(args) == 1 {
		return fmt.Sprintf("%+v", args[0])
	}
	return fmt.Sprintf("%+v", args)
}

// message renders the log line for err, falling back to the default layout
// when the template fails to execute.
func (c *config) message(err error, source string, args []any) (string, error) {
	data := MessageData{
		Func:       source,
		ErrType:    typeName(err),
		Err:        err.Error(),
		Annotation: c.annotation,
	}
	if c.withArgs {
		data.Args = formatArgs(args)
	}
	if c.tmpl == nil {
		return c.defaultMessage(err, data), nil
	}
	var b strings.Builder
	if tmplErr := c.tmpl.Execute(&b, data); tmplErr != nil {
		return c.defaultMessage(err, data), tmplErr
	}
	return b.String(), nil
}

func (c *config) defaultMessage(err error, data MessageData) string {
	msg := FormatMessage(err, data.Func, data.Annotation)
	if c.withArgs {
		msg += " args=" + data.Args
	}
	return msg
}

// fields returns the structured fields attached to every entry.
func (c *config) fields(err error, source string, args []any) []logging.Field {
	fields := []logging.Field{
		logging.String("func", source),
		logging.String("error_type", typeName(err)),
		logging.Err(err),
	}
	if c.annotation != "" {
		fields = append(fields, logging.String("annotation", c.annotation))
	}
	if c.withArgs {
		fields = append(fields, logging.String("args", formatArgs(args)))
	}
	if c.traceback {
		fields = append(fields,
			logging.String("trace", traceOf(err)),
			logging.Any("chain", chainOf(err)),
		)
	}
	return fields
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// traceOf renders err with its stack. Errors that carry no stack of their own
// get the stack of the handling site.
func traceOf(err error) string {
	var st stackTracer
	var pe *apperrors.PanicError
	if errors.As(err, &st) || errors.As(err, &pe) {
		return fmt.Sprintf("%+v", err)
	}
	return fmt.Sprintf("%+v", pkgerrors.WithStack(err))
}

// chainOf lists the messages along err's unwrap tree, depth first.
func chainOf(err error) []string {
	var chain []string
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		chain = append(chain, ErrorString(e))
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return chain
}

// callerName returns the short name of the function skip frames above the
// caller of callerName.
func callerName(skip int) string {
	pcs := make([]uintptr, 1)
	if runtime.Callers(skip+2, pcs) == 0 {
		return "unknown"
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	return shortFuncName(frame.Function)
}

// funcName returns the short name of the function value fn.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "unknown"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "unknown"
	}
	return shortFuncName(f.Name())
}

// shortFuncName strips the import path: "github.com/x/y/pkg.(*T).M" becomes
// "pkg.(*T).M".
func shortFuncName(full string) string {
	if full == "" {
		return "unknown"
	}
	head := full
	if i := strings.IndexByte(head, '['); i >= 0 {
		head = head[:i]
	}
	if i := strings.LastIndex(head, "/"); i >= 0 {
		full = full[i+1:]
	}
	return full
}
