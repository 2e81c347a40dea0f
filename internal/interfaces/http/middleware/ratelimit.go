package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/infrastructure/ratelimit"
	sharedConfig "github.com/aegis-idp/aegis/internal/shared/config"
	"github.com/aegis-idp/aegis/internal/shared/constants"
	"github.com/aegis-idp/aegis/internal/shared/logger"
	"github.com/aegis-idp/aegis/internal/shared/utils"
)

// RateLimit throttles connect-endpoint calls per calling client. The
// middleware runs before any handler, so it resolves the client id
// itself: basic-auth username on the token endpoints, the clientId
// field peeked from the JSON body on the permission endpoints, with the
// caller's IP as the last resort. Limiter failures fail open: a broken
// redis must not take the authorization path down with it.
func RateLimit(limiter ratelimit.RateLimiter, cfg sharedConfig.RateLimitConfig, log logger.Interface) gin.HandlerFunc {
	limits := ratelimit.Limits{
		RequestsPerMinute: cfg.RequestsPerMinute,
		RequestsPerHour:   cfg.RequestsPerHour,
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		key := clientKey(c)

		allowed, err := limiter.Allow(key, limits)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err, "key", key)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if id := c.GetString(constants.ContextKeyClientID); id != "" {
		return id
	}
	if user, _, ok := c.Request.BasicAuth(); ok && user != "" {
		return user
	}
	if id := peekBodyClientID(c); id != "" {
		return id
	}
	return c.ClientIP()
}

// peekBodyClientID reads the clientId field out of a JSON body, then
// restores the body so the handler's own binding still sees it. The id
// is unauthenticated here; a caller lying about it only throttles
// itself under the wrong key, the handler still checks the credentials.
func peekBodyClientID(c *gin.Context) string {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(data))

	var body struct {
		ClientID string `json:"clientId"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.ClientID
}
