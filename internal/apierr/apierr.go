package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable error class surfaced to callers. Handlers map kinds to
// HTTP statuses; internal detail stays in the wrapped error and is never
// serialized into responses.
type Kind string

const (
	KindValidation            Kind = "validation_error"
	KindAccessDenied          Kind = "access_denied"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindDependencyUnavailable Kind = "dependency_unavailable"
	KindConfiguration         Kind = "configuration_error"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// AccessDenied is returned uniformly for "does not exist" and "belongs to
// someone else" so callers cannot enumerate other players' resources.
func AccessDenied(msg string) *Error {
	return &Error{Kind: KindAccessDenied, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func DependencyUnavailable(msg string, err error) *Error {
	return &Error{Kind: KindDependencyUnavailable, Msg: msg, Err: err}
}

func Configuration(msg string) *Error {
	return &Error{Kind: KindConfiguration, Msg: msg}
}

// Status maps an error to an HTTP status. Non-apierr errors are treated as
// internal.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAccessDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindDependencyUnavailable:
		return http.StatusBadGateway
	case KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the stable kind for an error, or empty for internal errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// PublicMessage is what handlers are allowed to echo to the caller. Wrapped
// internal errors are dropped to avoid leaking secrets or SQL.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Msg != "" {
			return ae.Msg
		}
		return string(ae.Kind)
	}
	return "internal server error"
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
