package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	custom := "TASK_MISSING"

	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("Not authenticated", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"unprocessable", NewUnprocessableEntityError("bad body", false, nil), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"not found", NewNotFoundError("Task not found", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{"not found custom code", NewNotFoundError("Task not found", true, &custom), http.StatusNotFound, custom},
		{"too many", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestUnauthorizedCarriesBearerChallenge(t *testing.T) {
	err := NewUnauthorizedError("Invalid authentication credentials", false)
	assert.Equal(t, "Bearer", err.Headers["WWW-Authenticate"])
}

func TestHTTPError_As(t *testing.T) {
	wrapped := fmt.Errorf("creating task: %w", NewNotFoundError("Task not found", true, nil))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, "Task not found", httpErr.Error())
}

func TestHTTPError_HeadersNotSerialized(t *testing.T) {
	body, err := json.Marshal(NewUnauthorizedError("Not authenticated", false))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "WWW-Authenticate")
	assert.Contains(t, string(body), `"code":"UNAUTHORIZED"`)
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("title is required"))
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "Validation failed: title is required", err.Message)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
