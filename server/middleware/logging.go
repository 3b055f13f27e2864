package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/discoverykit/logger"
)

// slowRequest marks request log lines with "slow": true.
const slowRequest = 500 * time.Millisecond

// RequestLogger logs each request once it completes. Server errors log at
// error level, client errors at warn and the rest at debug. Requests to
// quietPaths, the registry's status and health polls, are not logged.
func RequestLogger(log *logger.Logger, quietPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := quiet[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.RequestURI(),
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"client", c.ClientIP(),
		)
		if route := c.FullPath(); route != "" {
			fields["route"] = route
		}
		if id := c.GetString(ContextKeyRequestID); id != "" {
			fields[ContextKeyRequestID] = id
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}
		if latency > slowRequest {
			fields["slow"] = true
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}
