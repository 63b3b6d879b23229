// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"math"

	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/deppfellow/taskapi/internal/handler"
	"github.com/deppfellow/taskapi/internal/middleware"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds the Echo instance with global middleware and every route.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s, services)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		rateLimiter(s, middlewares.RateLimit),
	)

	registerSystemRoutes(router, h)
	registerAuthRoutes(router, h, services)
	registerTaskRoutes(router, h, middlewares)

	return router
}

// rateLimiter limits each client IP to server.rate_limit requests per second,
// with a burst of at least one request.
func rateLimiter(s *server.Server, recorder *middleware.RateLimitMiddleware) echo.MiddlewareFunc {
	limit := s.Config.Server.RateLimit
	store := echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(limit),
		Burst: int(math.Max(1, math.Ceil(limit))),
	})

	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			recorder.RecordRateLimitHit(c.Path(), identifier)
			return errs.NewTooManyRequestsError("Rate limit exceeded")
		},
	})
}
