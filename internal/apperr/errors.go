// Package apperr carries the typed failures returned to the presentation
// layer: not found, unauthorized, conflict, transient and invalid input.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindConflict     Kind = "CONFLICT"
	KindTransient    Kind = "TRANSIENT"
	KindInvalid      Kind = "INVALID"
	KindInternal     Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

func NotFound(op, msg string) *Error { return newErr(KindNotFound, op, msg, nil) }

func Unauthorized(op, msg string) *Error { return newErr(KindUnauthorized, op, msg, nil) }

func Conflict(op, msg string, err error) *Error { return newErr(KindConflict, op, msg, err) }

func Transient(op string, err error) *Error {
	return newErr(KindTransient, op, "store unavailable", err)
}

func Invalid(op string, err error) *Error { return newErr(KindInvalid, op, "invalid input", err) }

// FromStore classifies an error coming back from the Membership Store.
// gorm must be opened with TranslateError for the duplicate and foreign
// key cases to be recognised.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return newErr(KindNotFound, op, "record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return newErr(KindConflict, op, "duplicate record", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return newErr(KindConflict, op, "reference does not exist", err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return Transient(op, err)
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable reports whether the operation may succeed if repeated.
func IsRetryable(err error) bool {
	return Is(err, KindTransient)
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindTransient:
		return http.StatusServiceUnavailable
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is what may be shown to the end user.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Kind == KindInvalid && ae.Err != nil {
			return ae.Err.Error()
		}
		return ae.Message
	}
	return "internal error"
}
