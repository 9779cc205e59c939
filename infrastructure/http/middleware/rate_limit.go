package middleware

import (
	"net/http"
	"time"

	"github.com/fundbridge/fundbridge/infrastructure/http/response"
	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
	"github.com/fundbridge/fundbridge/infrastructure/service/ratelimit"
)

// RateLimitMiddleware applies the fixed-window limiter to write endpoints,
// keyed by the authenticated principal when present, otherwise by origin IP.
type RateLimitMiddleware struct {
	limiter ratelimit.Service
	logger  logger.Logger
	limit   int
	window  time.Duration
}

func NewRateLimitMiddleware(limiter ratelimit.Service, log logger.Logger, limit int, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: log, limit: limit, window: window}
}

func (m *RateLimitMiddleware) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:ip:" + ClientIP(r)
		if principal := GetPrincipal(r.Context()); principal != nil {
			key = "ratelimit:actor:" + principal.ID
		}

		allowed, err := m.limiter.Allow(r.Context(), key, m.limit, m.window)
		if err != nil {
			// Limiter trouble must not take the write path down.
			m.logger.Error(r.Context(), "Rate limiter unavailable", err, map[string]interface{}{
				"key": key,
			})
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			response.TooManyRequests(w, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	}
}
