// Package xerrors defines the four error kinds spec'd for the core: invalid
// arguments, disposed external collaborators, cancellation, and propagated
// upstream (I/O) failures. The shape follows the teacher's compiler/errors
// package (a typed value carrying a stable kind, not a bare fmt.Errorf
// string) recut to the kinds this system actually raises.
package xerrors

import (
	"errors"
	"fmt"
)

// Kind identifies which of the four error categories an Error belongs to.
type Kind int

const (
	// Invalid marks a programming error: a null input where non-null is
	// required, a negative N, or a picker result outside its domain.
	Invalid Kind = iota
	// State marks use of a disposed external collaborator.
	State
	// Cancelled marks an async operation that observed cancellation.
	Cancelled
	// Upstream marks an I/O or decoding error from the input source; the
	// original error is kept unchanged as the wrapped cause.
	Upstream
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case State:
		return "state"
	case Cancelled:
		return "cancelled"
	case Upstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is the core's error value. Param names the offending argument for
// Invalid errors; it is empty for the other kinds.
type Error struct {
	Kind    Kind
	Param   string
	Message string
	Err     error // wrapped cause, set for Upstream
}

func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param %s)", e.Kind, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Invalidf builds an Invalid error naming the offending parameter.
func Invalidf(param, format string, args ...any) error {
	return &Error{Kind: Invalid, Param: param, Message: fmt.Sprintf(format, args...)}
}

// Statef builds a State error.
func Statef(format string, args ...any) error {
	return &Error{Kind: State, Message: fmt.Sprintf(format, args...)}
}

// Cancelledf builds a Cancelled error.
func Cancelledf(format string, args ...any) error {
	return &Error{Kind: Cancelled, Message: fmt.Sprintf(format, args...)}
}

// WrapUpstream wraps cause unchanged, tagged as an Upstream error so callers can
// distinguish "the source text had a problem" from "you called this wrong."
func WrapUpstream(cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: Upstream, Message: cause.Error(), Err: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
