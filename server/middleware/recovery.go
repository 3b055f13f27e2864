package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
)

// errorResponse is the body written for a recovered panic.
type errorResponse struct {
	*errors.AppError
	RequestID string `json:"request_id,omitempty"`
}

// Recovery turns a handler panic into a 500 carrying an INTERNAL_ERROR
// body and the request ID. http.ErrAbortHandler is re-raised so the server
// aborts the response as net/http intends.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			requestID := c.GetString(ContextKeyRequestID)
			log.Error("handler panic recovered", logger.Fields(
				logger.FieldError, fmt.Sprint(rec),
				"stack", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				ContextKeyRequestID, requestID,
			))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
				AppError:  errors.Internal("internal server error", nil),
				RequestID: requestID,
			})
		}()
		c.Next()
	}
}
