package ehandlers

import (
	"fmt"
	"reflect"
)

var defaultRaiseTypes = []reflect.Type{reflect.TypeOf("")}

// triggers reports whether a RaiseIfReturn result must become an error, and
// the message to build it with. Pointers are followed for the absence check,
// the type match and the message, so a *string behaves like a string.
// Absent values trigger only with RaiseByNone.
func (c *config) triggers(v any) (string, bool) {
	payload := deref(v)
	if isAbsent(payload) {
		return "", c.raiseByNone
	}
	msg := payloadMessage(v, payload)
	if c.raiseWhen != nil {
		return msg, c.raiseWhen(v)
	}
	types := c.raiseTypes
	if len(types) == 0 {
		types = defaultRaiseTypes
	}
	for _, t := range types {
		if typeMatches(reflect.TypeOf(v), t) || typeMatches(reflect.TypeOf(payload), t) {
			return msg, true
		}
	}
	return msg, false
}

func typeMatches(dt, t reflect.Type) bool {
	if dt == t {
		return true
	}
	return t.Kind() == reflect.Interface && dt.Implements(t)
}

// payloadMessage prefers the value's own Error or String method, which may
// be defined on the pointer.
func payloadMessage(v, payload any) string {
	switch v.(type) {
	case error, fmt.Stringer:
		return fmt.Sprint(v)
	}
	return fmt.Sprint(payload)
}

// deref follows pointers down to the value they point to. A nil pointer
// yields nil.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// isAbsent reports whether v is the absence sentinel: nil, a nil pointer,
// slice, map, channel, func or interface, or the empty string. Other zero
// values such as 0 and false are ordinary return values.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
