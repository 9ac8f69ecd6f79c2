package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies an error for callers. Every error leaving the service layer
// resolves to exactly one Kind.
type Kind string

const (
	KindInvalidInput          Kind = "INVALID_INPUT"
	KindNotFound              Kind = "NOT_FOUND"
	KindConflict              Kind = "CONFLICT"
	KindBusinessRuleViolation Kind = "BUSINESS_RULE_VIOLATION"
	KindForbidden             Kind = "FORBIDDEN"
	KindInternal              Kind = "INTERNAL"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrBusinessRuleViolation = errors.New("business rule violation")
	ErrForbidden             = errors.New("forbidden")
	ErrInternal              = errors.New("internal error")

	// ErrUniqueViolation is returned by repositories when an insert hits a
	// uniqueness constraint. Services translate it into a Conflict naming the entity.
	ErrUniqueViolation = errors.New("unique constraint violated")
)

var sentinels = map[Kind]error{
	KindInvalidInput:          ErrInvalidInput,
	KindNotFound:              ErrNotFound,
	KindConflict:              ErrConflict,
	KindBusinessRuleViolation: ErrBusinessRuleViolation,
	KindForbidden:             ErrForbidden,
	KindInternal:              ErrInternal,
}

// Error is a classified, caller-visible error. Details carries structured
// context such as the requested and remaining quantities.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, domain.ErrNotFound) match any *Error of that kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) *Error {
	return newError(KindInvalidInput, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

// Internal wraps an unexpected failure. The cause is kept for logging and is
// never rendered to API clients.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// QuantityExceeded reports a dispatch that would push a PO line or lot past its
// ordered quantity.
func QuantityExceeded(target string, requested, remaining decimal.Decimal) *Error {
	return &Error{
		Kind: KindBusinessRuleViolation,
		Message: fmt.Sprintf("%s: requested %s exceeds remaining (%s)",
			target, requested.String(), remaining.String()),
		Details: map[string]any{
			"requested": requested.String(),
			"remaining": remaining.String(),
		},
	}
}

// KindOf resolves the Kind of any error. Unclassified errors are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	if errors.Is(err, ErrUniqueViolation) {
		return KindConflict
	}
	return KindInternal
}
