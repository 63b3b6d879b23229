package middleware

import (
	"github.com/deppfellow/taskapi/internal/server"
)

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit logs a rejected request and, with New Relic enabled,
// records a RateLimitHit custom event.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint, identifier string) {
	r.server.Logger.Warn().
		Str("endpoint", endpoint).
		Str("identifier", identifier).
		Msg("rate limit exceeded")

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint":   endpoint,
			"identifier": identifier,
		})
	}
}
