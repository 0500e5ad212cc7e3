package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsChains(t *testing.T) {
	base := New(KindInsufficientInventory, "not enough seats")
	wrapped := fmt.Errorf("booking failed: %w", base)

	assert.Equal(t, KindInsufficientInventory, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindInsufficientInventory))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestMessageOfHidesInternals(t *testing.T) {
	assert.Equal(t, "not enough seats", MessageOf(New(KindInsufficientInventory, "not enough seats")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: connection refused")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("row locked")
	err := Wrap(KindInvalidState, "transaction moved", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transaction moved")
	assert.Contains(t, err.Error(), "row locked")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindVoucherNotFound, http.StatusBadRequest},
		{KindVoucherExhausted, http.StatusBadRequest},
		{KindCouponExpired, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInsufficientInventory, http.StatusConflict},
		{KindInvalidState, http.StatusConflict},
		{KindProofAlreadySubmitted, http.StatusConflict},
		{KindPaymentWindowExpired, http.StatusGone},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(New(tt.kind, "x")))
		})
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unclassified")))
}
