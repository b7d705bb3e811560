package middleware

import (
	"net/http"

	"travelagency/internal/pkg/metrics"
	"travelagency/internal/pkg/ratelimit"
	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit throttles attempts per client IP. A successful response clears the counter.
func LoginRateLimit(limiter ratelimit.Limiter, scope string, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key) {
			m.Throttled()
			response.Abort(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many login attempts, try again later")
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			limiter.Reset(c.Request.Context(), key)
		}
	}
}
