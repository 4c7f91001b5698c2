package middleware

import (
	"time"

	"github.com/cvmfinance/orcr-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency by route pattern
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := metrics.RequestStarted()
		defer done()

		c.Next()

		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
