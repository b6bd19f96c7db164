// Package apperr is the error taxonomy shared by the usecases and adapters.
//
// Every error returned by a usecase matches exactly one kind via errors.Is:
//
//	ErrValidation  - bad or missing input, illegal transition; fix and resend
//	ErrRouting     - organization outside the known roster; misconfiguration
//	ErrConflict    - lost a race against a concurrent writer; retry the operation
//	ErrPersistence - the store failed; nothing was committed
//	ErrNotFound    - referenced record does not exist
//	ErrForbidden   - the acting organization may not perform the operation
//
// Nothing in this module retries on its own.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrRouting     = errors.New("routing error")
	ErrConflict    = errors.New("concurrency conflict")
	ErrPersistence = errors.New("persistence error")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
)

type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func New(kind error, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func Routing(format string, args ...any) error {
	return &Error{Kind: ErrRouting, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(what string) error { return &Error{Kind: ErrNotFound, Msg: what + " not found"} }

func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a store failure. Errors that already carry a kind pass
// through untouched so domain errors raised inside a transaction survive.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return err
	}
	return &Error{Kind: ErrPersistence, Err: err}
}

// KindOf returns the taxonomy kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrRouting, ErrConflict, ErrPersistence, ErrNotFound, ErrForbidden} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
