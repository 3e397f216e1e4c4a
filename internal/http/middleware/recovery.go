package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/common/logger"
	"intentrelay.app/relay/internal/http/dto"
)

// Recovery turns a handler panic into a response. Routes listed in acks answer 200
// with the given body, matching their always-acknowledge contract; every other
// route gets a 500 in the intake envelope.
func Recovery(acks map[string]any) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			route := c.FullPath()
			ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Component: "relay.http.recovery"})
			slog.ErrorContext(ctx, "panic recovered",
				"panic", r,
				"method", c.Request.Method,
				"route", route,
				"stack", logger.Truncate(string(debug.Stack()), 4096),
			)
			_ = c.Error(fmt.Errorf("panic: %v", r))

			if body, ok := acks[route]; ok {
				c.AbortWithStatusJSON(http.StatusOK, body)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.IntakeResponse{
				Success: false,
				Message: "internal server error",
			})
		}()
		c.Next()
	}
}
