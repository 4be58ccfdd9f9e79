// Package apperror defines the error kinds the core surfaces to its callers
// and how each kind is rejected at the HTTP and gRPC boundaries.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

type Kind string

const (
	KindInsufficientStock Kind = "insufficient_stock"
	KindEmptyCart         Kind = "empty_cart"
	KindAlreadyEnrolled   Kind = "already_enrolled"
	KindNoSeatsAvailable  Kind = "no_seats_available"
	KindNotEnrolled       Kind = "not_enrolled"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindUnauthorized      Kind = "unauthorized"
	KindValidation        Kind = "validation_error"
	KindInternal          Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InsufficientStock(productID string) *Error {
	return New(KindInsufficientStock, "insufficient stock for product %s", productID)
}

func EmptyCart() *Error {
	return New(KindEmptyCart, "cart is empty")
}

func NotFound(entity, id string) *Error {
	return New(KindNotFound, "%s %s not found", entity, id)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(KindUnauthorized, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func InvalidTransition(entity string, from, to interface{}) *Error {
	return New(KindInvalidTransition, "%s cannot move from %v to %v", entity, from, to)
}

// KindOf returns the kind carried by err, or KindInternal for anything the
// core did not classify.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message is the caller-safe text for err. Internal errors never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInsufficientStock, KindAlreadyEnrolled, KindNoSeatsAvailable, KindInvalidTransition:
		return http.StatusConflict
	case KindEmptyCart, KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotEnrolled, KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func GRPCCode(kind Kind) codes.Code {
	switch kind {
	case KindInsufficientStock, KindNoSeatsAvailable:
		return codes.ResourceExhausted
	case KindAlreadyEnrolled:
		return codes.AlreadyExists
	case KindInvalidTransition, KindEmptyCart:
		return codes.FailedPrecondition
	case KindNotEnrolled, KindNotFound:
		return codes.NotFound
	case KindUnauthorized:
		return codes.PermissionDenied
	case KindValidation:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}
