package httpserver

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"petrugs-storefront/internal/logging"
)

const traceHeader = "X-Trace-ID"

// requestLogger tags each request with a trace id, taken from the incoming
// header when present, and logs one line when the handler finishes.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := c.GetHeader(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Header(traceHeader, traceID)

		reqLogger := logger.With("trace_id", traceID)
		ctx := logging.WithTraceID(c.Request.Context(), traceID)
		ctx = logging.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= 500:
			reqLogger.Error("http request", attrs...)
		case status >= 400:
			reqLogger.Warn("http request", attrs...)
		default:
			reqLogger.Info("http request", attrs...)
		}
	}
}
