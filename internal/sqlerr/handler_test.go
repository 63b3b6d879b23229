package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_NoRowsWithTable(t *testing.T) {
	err := WrapNoRows("tasks", pgx.ErrNoRows)
	httpErr := asHTTPError(t, HandleError(fmt.Errorf("get task 42: %w", err)))

	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Task not found", httpErr.Message)
}

func TestHandleError_NoRowsUntagged(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(sql.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestWrapNoRows_LeavesOtherErrors(t *testing.T) {
	other := errors.New("connection reset")
	assert.Same(t, other, WrapNoRows("tasks", other))
	assert.Nil(t, WrapNoRows("tasks", nil))
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	in := errs.NewUnauthorizedError("Not authenticated", false)
	assert.Same(t, in, HandleError(in))
}

func TestHandleError_PgErrors(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		status  int
		code    string
		message string
	}{
		{
			name:    "not null",
			pgErr:   &pgconn.PgError{Code: "23502", TableName: "tasks", ColumnName: "title"},
			status:  http.StatusBadRequest,
			code:    "TASK_REQUIRED",
			message: "The Title is required",
		},
		{
			name:    "unique",
			pgErr:   &pgconn.PgError{Code: "23505", TableName: "tasks", ConstraintName: "tasks_title_key"},
			status:  http.StatusBadRequest,
			code:    "TASK_ALREADY_EXISTS",
			message: "A Task with this Title already exists",
		},
		{
			name:    "out of range",
			pgErr:   &pgconn.PgError{Code: "22003", TableName: "tasks"},
			status:  http.StatusBadRequest,
			code:    "TASK_INVALID",
			message: "One or more values are out of range or malformed",
		},
		{
			name:   "unknown",
			pgErr:  &pgconn.PgError{Code: "XX000"},
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(fmt.Errorf("exec: %w", tt.pgErr)))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, httpErr.Message)
			}
		})
	}
}

func TestHandleError_Unknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestConvertPgError_Unwrap(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})

	var sqlErr *Error
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", converted), &sqlErr))
	assert.Equal(t, UniqueViolation, sqlErr.Code)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(converted, &pgErr), "Unwrap exposes the driver error")
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "title", extractColumnForUniqueViolation("tasks_title_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk"))
}
