package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/taskapi/internal/config"
	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, logs *bytes.Buffer) *server.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	log := zerolog.New(logs)
	return &server.Server{Config: cfg, Logger: &log}
}

// newTestEcho wires the global error handler, request id and context
// enhancer the way the router does.
func newTestEcho(t *testing.T, s *server.Server) (*echo.Echo, *AuthMiddleware) {
	t.Helper()
	authService, err := service.NewAuthService(s)
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())

	return e, NewAuthMiddleware(s, authService)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth_Bearer(t *testing.T) {
	var logs bytes.Buffer
	s := testServer(t, &logs)
	e, auth := newTestEcho(t, s)

	e.POST("/tasks", func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserID(c))
	}, auth.RequireAuth)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"valid", "Bearer admin", http.StatusOK, ""},
		{"lowercase scheme", "bearer admin", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Not authenticated"},
		{"wrong scheme", "Basic YWRtaW46c2VjcmV0MTIz", http.StatusUnauthorized, "Not authenticated"},
		{"scheme without token", "Bearer", http.StatusUnauthorized, "Invalid authentication credentials"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Invalid authentication credentials"},
		{"blank token", "Bearer    ", http.StatusUnauthorized, "Invalid authentication credentials"},
		{"scheme prefix only", "Bearerx admin", http.StatusUnauthorized, "Not authenticated"},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized, "Invalid authentication credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin", rec.Body.String())
				return
			}

			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			body := decodeError(t, rec)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "UNAUTHORIZED", body.Code)
		})
	}
}

func TestRequireAuth_AddsUserToRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	s := testServer(t, &logs)
	e, auth := newTestEcho(t, s)

	e.POST("/tasks", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside handler")
		return c.NoContent(http.StatusOK)
	}, auth.RequireAuth)

	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer admin")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), `"user_id":"admin"`)
	assert.Contains(t, logs.String(), `"request_id":"`)
}

func TestGlobalErrorHandler(t *testing.T) {
	var logs bytes.Buffer
	s := testServer(t, &logs)
	e, _ := newTestEcho(t, s)

	e.GET("/missing", func(echo.Context) error {
		return errors.Join(errors.New("context"), pgx.ErrNoRows)
	})
	e.GET("/boom", func(echo.Context) error {
		return errors.New("kaboom")
	})
	e.GET("/echo", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "nope")
	})

	tests := []struct {
		path    string
		status  int
		code    string
		message string
	}{
		{"/missing", http.StatusNotFound, "NOT_FOUND", "Resource not found"},
		{"/boom", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"/echo", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "nope"},
		{"/no-such-route", http.StatusNotFound, "NOT_FOUND", "Route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status, body.Status)
		})
	}

	assert.Contains(t, logs.String(), "kaboom")
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

type failingAcquirer struct{}

func (failingAcquirer) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("pool exhausted")
}

func TestDBSession_AcquireFailure(t *testing.T) {
	var logs bytes.Buffer
	s := testServer(t, &logs)
	e, _ := newTestEcho(t, s)

	called := false
	e.GET("/tasks", func(c echo.Context) error {
		called = true
		return nil
	}, NewSessionMiddleware(failingAcquirer{}).DBSession())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "pool exhausted")
}

func TestNewMiddlewares_WithoutDatabase(t *testing.T) {
	var logs bytes.Buffer
	s := testServer(t, &logs)
	authService, err := service.NewAuthService(s)
	require.NoError(t, err)

	m := NewMiddlewares(s, &service.Services{Auth: authService})
	assert.Nil(t, m.Session)
	assert.NotNil(t, m.Auth)
}

func TestRecordRateLimitHit(t *testing.T) {
	var logs bytes.Buffer
	s := testServer(t, &logs)

	NewRateLimitMiddleware(s).RecordRateLimitHit("/tasks", "192.0.2.1")
	assert.Contains(t, logs.String(), "rate limit exceeded")
	assert.Contains(t, logs.String(), "192.0.2.1")
}
