// Package middleware provides the ambient gin middleware shared by
// applications built on this library: panic recovery, request logging,
// request IDs, and CORS.
package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/shree-dhimal/commoncore/response"
)

// Recovery returns a gin middleware that recovers from panics, logs the error
// with stack trace using slog, and returns a 500 envelope.
//
// This middleware is intended to replace gin.Recovery() for applications that
// need structured logging and the standard response shape.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(stack)),
				)

				c.Abort()
				c.JSON(http.StatusInternalServerError, response.Envelope{
					Success: false,
					Message: "Internal Server Error",
					Errors:  "internal server error",
				})
			}
		}()
		c.Next()
	}
}
