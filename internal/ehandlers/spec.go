package ehandlers

import (
	apperrors "github.com/agbru/ehandlers/internal/errors"
)

type specKind uint8

const (
	specNone specKind = iota
	specInstance
	specType
)

// ErrorSpec describes an error either as a ready instance or as a constructor
// to be invoked with a message. The zero value describes no error.
type ErrorSpec struct {
	kind specKind
	err  error
	ctor func(msg string) error
}

// Instance returns an ErrorSpec that always resolves to err.
func Instance(err error) ErrorSpec {
	return ErrorSpec{kind: specInstance, err: err}
}

// Type returns an ErrorSpec that builds a fresh error with ctor on every use.
func Type(ctor func(msg string) error) ErrorSpec {
	return ErrorSpec{kind: specType, ctor: ctor}
}

// TypeOf is Type for constructors returning a concrete error type.
func TypeOf[E error](ctor func(msg string) E) ErrorSpec {
	if ctor == nil {
		return ErrorSpec{kind: specType}
	}
	return Type(func(msg string) error { return ctor(msg) })
}

// IsZero reports whether the spec describes no error at all.
func (s ErrorSpec) IsZero() bool { return s.kind == specNone }

// Build resolves the spec into an error. Instances ignore msg; constructors
// receive it. A spec that cannot produce a non-nil error yields a
// ConfigError.
func (s ErrorSpec) Build(msg string) (error, error) {
	switch s.kind {
	case specInstance:
		if s.err == nil {
			return nil, apperrors.NewConfigError("ehandlers: error instance is nil")
		}
		return s.err, nil
	case specType:
		if s.ctor == nil {
			return nil, apperrors.NewConfigError("ehandlers: error constructor is nil")
		}
		err := s.ctor(msg)
		if err == nil {
			return nil, apperrors.NewConfigError("ehandlers: error constructor returned nil")
		}
		return err, nil
	}
	return nil, apperrors.NewConfigError("ehandlers: no error specified, expected an instance or a constructor")
}
