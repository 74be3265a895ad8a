package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/martijn/quill/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags the request context with a request id and logs one
// line per request once it completes
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New().String()
		ctx := logging.WithAttrs(c.Request.Context(), slog.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if identity := GetIdentity(c); identity.Authenticated() {
			attrs = append(attrs, "user_id", identity.UserID())
		}
		logger.InfoContext(ctx, "request", attrs...)
	}
}
