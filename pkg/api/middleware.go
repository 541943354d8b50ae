package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gitfolio/gitfolio/pkg/config"
	"github.com/gitfolio/gitfolio/pkg/secrets"
)

// securityHeaders returns middleware that sets standard security response headers.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Next()
	}
}

// bearerAuth guards a route group with the configured token. A zero
// token leaves the group open.
func bearerAuth(token secrets.Secret) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token.IsZero() {
			c.Next()
			return
		}
		presented, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || !token.Matches(presented) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or missing bearer token"})
			return
		}
		c.Next()
	}
}

// rateLimit bounds request rates per client address with a token bucket.
func rateLimit(limits config.RateLimitConfig) gin.HandlerFunc {
	if limits.Disabled() {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newClientLimiter(float64(limits.Requests), limits.Burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
