package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicpulse/civicpulse/internal/shared/constants"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

// probe paths are only logged when they fail
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// CustomLogger writes one access-log line per request. Complaint text never
// travels in the URL, so the query string is safe to log.
func CustomLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path
		if quietPaths[path] && status < 400 {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"path", path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}

		if requestID := c.GetString(constants.ContextKeyRequestID); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if userID := c.GetUint(constants.ContextKeyUserID); userID != 0 {
			args = append(args, "user_id", userID, "role", c.GetString(constants.ContextKeyUserRole))
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", args...)
		case status >= 400:
			log.Warnw("request rejected", args...)
		case c.Request.Method == "GET":
			log.Debugw("request served", args...)
		default:
			log.Infow("request served", args...)
		}
	}
}
