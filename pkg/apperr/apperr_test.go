package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(FailedPrecondition, "Next claim in %dh %dm", 3, 30)
	assert.Equal(t, FailedPrecondition, err.Status)
	assert.Equal(t, "Next claim in 3h 30m", err.Message)
	assert.Equal(t, "FAILED_PRECONDITION: Next claim in 3h 30m", err.Error())
}

func TestFromUnwrapsTaggedErrors(t *testing.T) {
	tagged := New(NotFound, "Cat not found")
	assert.Equal(t, tagged, From(tagged))

	// Tagged errors survive wrapping.
	wrapped := fmt.Errorf("loading catalog: %w", tagged)
	assert.Equal(t, tagged, From(wrapped))
}

func TestFromHidesUnknownErrors(t *testing.T) {
	got := From(errors.New("pq: connection refused"))
	assert.Equal(t, Internal, got.Status)
	assert.Equal(t, "Something went wrong", got.Message)
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, InvalidArgument.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, FailedPrecondition.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, InvalidSignature.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NotFound.HTTPStatus())
	assert.Equal(t, http.StatusTooManyRequests, ResourceExhausted.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Status("UNKNOWN").HTTPStatus())
}
