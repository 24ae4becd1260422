package middleware

import (
	"time" // Request latency

	"wallet_ledger/internal/metrics" // Metrics recorder

	"github.com/gin-gonic/gin" // Gin web framework
)

// Metrics records every request by its route template
func Metrics(m metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Request start
		c.Next()            // Process request
		route := c.FullPath()
		// Unmatched routes share one label to keep cardinality bounded
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
