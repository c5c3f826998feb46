package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sipico/staff-console/internal/api"
)

func TestAPIErrorUnwrap(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, &api.APIError{StatusCode: http.StatusUnauthorized}, api.ErrUnauthorized)
	assert.ErrorIs(t, &api.APIError{StatusCode: http.StatusNotFound}, api.ErrNotFound)
	assert.NoError(t, errors.Unwrap(&api.APIError{StatusCode: http.StatusBadRequest}))
}

func TestAPIErrorString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "api: Title is required (status 400)", (&api.APIError{StatusCode: 400, Message: "Title is required"}).Error())
	assert.Equal(t, "api: request failed (status 500)", (&api.APIError{StatusCode: 500}).Error())
}

func TestMessage(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("saving: %w", &api.APIError{StatusCode: 400, Message: "Title is required"})

	assert.Equal(t, "Title is required", api.Message(wrapped, "Operation failed"))
	assert.Equal(t, "Operation failed", api.Message(errors.New("dial tcp: refused"), "Operation failed"))
	assert.Equal(t, "Operation failed", api.Message(&api.APIError{StatusCode: 500}, "Operation failed"))
	assert.Equal(t, "Operation failed", api.Message(nil, "Operation failed"))
}
