package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/taskapi/internal/config"
	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/labstack/echo/v4"
)

const bearerScheme = "bearer"

// Authorizer resolves a bearer token to the user it was issued for.
type Authorizer interface {
	Mode() string
	Authorize(token string) (string, error)
}

// AuthMiddleware guards routes with a bearer token check.
type AuthMiddleware struct {
	server *server.Server
	auth   Authorizer
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server, auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

// RequireAuth rejects requests without a valid bearer token with 401 and a
// WWW-Authenticate challenge. On success user_id is set on the Echo context.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	if auth.auth.Mode() == config.AuthModeClerk {
		return auth.requireClerk(next)
	}
	return auth.requireBearer(next)
}

func (auth *AuthMiddleware) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request())
		if !ok {
			return errs.NewUnauthorizedError("Not authenticated", false)
		}

		subject, err := auth.auth.Authorize(token)
		if err != nil {
			GetLogger(c).Warn().
				Str("function", "RequireAuth").
				Msg("rejected bearer token")
			return err
		}

		setUser(c, subject, "")
		return next(c)
	}
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively. ok is false only when the
// header is missing or names another scheme; an empty token is returned as "".
func bearerToken(r *http.Request) (token string, ok bool) {
	header := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	return strings.TrimSpace(token), true
}

// requireClerk delegates verification to Clerk's net/http middleware and
// renders its failures in the same shape as every other 401.
func (auth *AuthMiddleware) requireClerk(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				start := time.Now()

				httpErr := errs.NewUnauthorizedError("Invalid authentication credentials", false)
				for k, v := range httpErr.Headers {
					w.Header().Set(k, v)
				}
				w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				w.WriteHeader(httpErr.Status)

				if err := json.NewEncoder(w).Encode(httpErr); err != nil {
					auth.server.Logger.Error().
						Err(err).
						Str("function", "RequireAuth").
						Dur("duration", time.Since(start)).
						Msg("failed to write JSON response")
					return
				}

				auth.server.Logger.Warn().
					Str("function", "RequireAuth").
					Dur("duration", time.Since(start)).
					Msg("clerk rejected session token")
			}))))(
		func(c echo.Context) error {
			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				GetLogger(c).Error().
					Str("function", "RequireAuth").
					Msg("could not get session claims from context")
				return errs.NewUnauthorizedError("Not authenticated", false)
			}

			setUser(c, claims.Subject, claims.ActiveOrganizationRole)
			return next(c)
		})
}
