package middleware

import (
	"github.com/deppfellow/taskapi/internal/database"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionMiddleware pins one pooled connection to each request it wraps.
type SessionMiddleware struct {
	pool database.Acquirer
}

func NewSessionMiddleware(pool database.Acquirer) *SessionMiddleware {
	return &SessionMiddleware{pool: pool}
}

// DBSession acquires a connection before the handler runs and releases it
// when the handler returns, whatever the outcome. Repositories reach it
// through database.QuerierFor.
func (sm *SessionMiddleware) DBSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			conn, err := sm.pool.Acquire(req.Context())
			if err != nil {
				return errors.Wrap(err, "acquire database session")
			}
			defer conn.Release()

			c.SetRequest(req.WithContext(database.WithSession(req.Context(), conn)))
			return next(c)
		}
	}
}
