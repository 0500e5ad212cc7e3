package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so controllers can map it to an HTTP status
// and callers can tell "retry with different input" from "refresh and
// look again" from "not authorized".
type Kind string

const (
	KindValidation            Kind = "VALIDATION_ERROR"
	KindInsufficientInventory Kind = "INSUFFICIENT_INVENTORY"
	KindInvalidState          Kind = "INVALID_TRANSACTION_STATE"
	KindProofAlreadySubmitted Kind = "PROOF_ALREADY_SUBMITTED"
	KindPaymentWindowExpired  Kind = "PAYMENT_WINDOW_EXPIRED"
	KindVoucherNotFound       Kind = "VOUCHER_NOT_FOUND"
	KindVoucherExpired        Kind = "VOUCHER_EXPIRED"
	KindVoucherExhausted      Kind = "VOUCHER_EXHAUSTED"
	KindCouponNotFound        Kind = "COUPON_NOT_FOUND"
	KindCouponExpired         Kind = "COUPON_EXPIRED"
	KindCouponExhausted       Kind = "COUPON_EXHAUSTED"
	KindForbidden             Kind = "FORBIDDEN"
	KindNotFound              Kind = "NOT_FOUND"
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindInternal              Kind = "INTERNAL"
)

// Error carries a kind plus a human-readable message.
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

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a kind and message while keeping it unwrappable.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, KindInternal if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the human-readable message of err, or a generic one
// for unclassified errors so internals never leak to clients.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to the HTTP status code the API contract promises.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation,
		KindVoucherNotFound, KindVoucherExpired, KindVoucherExhausted,
		KindCouponNotFound, KindCouponExpired, KindCouponExhausted:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientInventory, KindInvalidState, KindProofAlreadySubmitted:
		return http.StatusConflict
	case KindPaymentWindowExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
