package middleware

import (
	"log/slog"
	"time"

	"github.com/cvmfinance/orcr-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// RequestLogger attaches a request-scoped logger and logs each request using slog
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(),
			logger.Log.With("request_id", requestID)))

		c.Next()

		// Skip logging for health check to avoid noise
		if path == "/api/health" {
			return
		}

		statusCode := c.Writer.Status()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		if raw != "" {
			path = path + "?" + raw
		}

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", statusCode),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Request.UserAgent()),
		}

		if errorMessage != "" {
			attrs = append(attrs, slog.String("error", errorMessage))
		}

		// Request-scoped logger already carries request_id and, once authenticated, user_id
		log := logger.FromContext(c.Request.Context())
		msg := "Incoming request"
		if statusCode >= 500 {
			log.Error(msg, attrs...)
		} else if statusCode >= 400 {
			log.Warn(msg, attrs...)
		} else {
			log.Info(msg, attrs...)
		}
	}
}
