package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"policeapp/internal/metrics"
)

// Metrics records request count and latency per route template. Unmatched
// paths are grouped under "unmatched" to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDurationMs.WithLabelValues(method, route).Observe(float64(time.Since(start).Milliseconds()))
	}
}
