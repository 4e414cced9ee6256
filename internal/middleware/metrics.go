package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/metrics"
)

// Metrics records the count and latency of every routed request
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
