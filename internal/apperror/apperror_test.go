package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("checkout: %w", EmptyCart())
	assert.Equal(t, KindEmptyCart, KindOf(err))
	assert.True(t, Is(err, KindEmptyCart))
	assert.False(t, Is(nil, KindEmptyCart))

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestMessageHidesInternal(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "internal server error", Message(Wrap(KindInternal, errors.New("x"), "db down")))
	assert.Equal(t, "product p-1 not found", Message(NotFound("product", "p-1")))
}

func TestEveryKindHasARejection(t *testing.T) {
	kinds := []Kind{
		KindInsufficientStock, KindEmptyCart, KindAlreadyEnrolled, KindNoSeatsAvailable,
		KindNotEnrolled, KindInvalidTransition, KindNotFound, KindUnauthorized, KindValidation,
	}
	for _, k := range kinds {
		assert.NotEqual(t, http.StatusInternalServerError, HTTPStatus(k), k)
		assert.NotEqual(t, codes.Internal, GRPCCode(k), k)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Wrap(KindInternal, cause, "failed to reserve stock")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to reserve stock: deadlock detected", err.Error())
}
