package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig names the server in its spans. A disabled config yields a
// pass-through handler.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns OpenTelemetry tracing middleware backed by otelgin.
// Span names follow the route pattern, e.g. "POST /generate_product".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if cfg.Enabled {
		return otelgin.Middleware(cfg.ServiceName)
	}
	return func(c *gin.Context) { c.Next() }
}

// SpanAttributes tags the active span with the request id and marks it as
// failed for 4xx/5xx responses. It must be placed after RequestID and Tracing.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		c.Next()

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, "Internal Server Error")
		case status >= http.StatusBadRequest:
			span.SetStatus(codes.Error, "Client Error")
		default:
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
