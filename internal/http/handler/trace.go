package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// TraceID prefers the caller-supplied trace header and falls back to the active span.
func TraceID(c *gin.Context, header string) *string {
	traceID := ""
	if header != "" {
		traceID = c.GetHeader(header)
	}
	if traceID == "" {
		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.IsValid() {
			traceID = spanCtx.TraceID().String()
		}
	}
	if traceID == "" {
		return nil
	}
	return &traceID
}
