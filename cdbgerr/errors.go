// Package cdbgerr defines the small closed set of error kinds the compactor
// and its collaborators use to distinguish a per-read skip from a fatal
// condition that must abort the worker.
package cdbgerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error into the taxonomy of spec §7.
type Kind int

const (
	// KindInvalidSymbol is a character outside the configured alphabet.
	KindInvalidSymbol Kind = iota
	// KindSequenceTooShort is a sequence shorter than K.
	KindSequenceTooShort
	// KindStoreFull is a bounded store (QF) that rejected an insert.
	KindStoreFull
	// KindInvariantViolation is an inconsistent cDBG index or a split-retry
	// loop that failed to converge.
	KindInvariantViolation
	// KindIO is a reader/writer failure propagated unchanged from a collaborator.
	KindIO
	// KindInvalidConfig is a Config that fails validation before any store or
	// graph is constructed (spec §6, CLI exit code 2).
	KindInvalidConfig
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSymbol:
		return "invalid-symbol"
	case KindSequenceTooShort:
		return "sequence-too-short"
	case KindStoreFull:
		return "store-full"
	case KindInvariantViolation:
		return "invariant-violation"
	case KindIO:
		return "io-error"
	case KindInvalidConfig:
		return "invalid-config"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carried through the taxonomy. Callers
// distinguish kinds with errors.As and inspect Kind directly, or use the
// IsKind helper below.
type Error struct {
	Kind    Kind
	Context string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind with a formatted context message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and context to an underlying cause, preserving it for
// errors.Unwrap, errors.Is and errors.As. *Error has no Cause method, so
// errors.Cause stops at the *Error itself.
func Wrap(cause error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...), cause: cause}
}

// Fatal reports whether an error of this kind must abort the worker rather
// than simply being counted as a per-read skip.
func (e *Error) Fatal() bool {
	switch e.Kind {
	case KindStoreFull, KindInvariantViolation, KindInvalidConfig:
		return true
	default:
		return false
	}
}

// IsKind reports whether err (or any error it wraps) is a *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
