// Package apperr defines the typed errors services return. The HTTP layer
// maps a Kind to a status code and a safe client message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a domain error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	// KindValidation is a request that parsed but failed a field rule.
	KindValidation
	KindUnauthorized
	// KindBadRequest is a request the current state cannot satisfy, such as
	// resubmitting a completed quiz.
	KindBadRequest
	KindInternal
	// KindTooLarge is an upload over the configured size limit.
	KindTooLarge
)

var statusByKind = map[Kind]int{
	KindNotFound:     http.StatusNotFound,
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindBadRequest:   http.StatusBadRequest,
	KindInternal:     http.StatusInternalServerError,
	KindTooLarge:     http.StatusRequestEntityTooLarge,
}

// Error is a domain error. Message is shown to clients; Err never is.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
	Details interface{}
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the response status for the error's kind. Unknown
// kinds are treated as client errors.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusBadRequest
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithOp sets the failing operation and returns the same error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithErr records the underlying cause and returns the same error.
func (e *Error) WithErr(err error) *Error {
	e.Err = err
	return e
}

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Validation(message string) *Error   { return New(KindValidation, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func BadRequest(message string) *Error   { return New(KindBadRequest, message) }
func Internal(message string) *Error     { return New(KindInternal, message) }
func TooLarge(message string) *Error     { return New(KindTooLarge, message) }

// GetKind returns the kind of the first *Error in err's chain, or
// KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
