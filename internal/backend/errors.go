// Package backend defines the error contract between the client core and the
// remote backend adapters. Adapters translate driver errors into a closed set
// of kinds; the core branches on kinds only and never inspects raw payloads.
package backend

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a backend failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidCredentials
	KindUserNotFound
	KindEmailInUse
	KindWeakPassword
	KindInvalidEmail
	KindRateLimited
	KindPermissionDenied
	KindUnavailable
	KindUnauthenticated
	KindTimeout
	KindCanceled
	KindNotFound
	KindInvalidFormat
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid-credentials"
	case KindUserNotFound:
		return "user-not-found"
	case KindEmailInUse:
		return "email-in-use"
	case KindWeakPassword:
		return "weak-password"
	case KindInvalidEmail:
		return "invalid-email"
	case KindRateLimited:
		return "rate-limited"
	case KindPermissionDenied:
		return "permission-denied"
	case KindUnavailable:
		return "unavailable"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindNotFound:
		return "not-found"
	case KindInvalidFormat:
		return "invalid-format"
	case KindInvalidArgument:
		return "invalid-argument"
	default:
		return "unknown"
	}
}

// Error is a classified backend failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a classified error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a classified error around a driver-level cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the kind from err. Context cancellation and deadline errors
// classify even when no adapter wrapped them.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}
	return KindUnknown
}
