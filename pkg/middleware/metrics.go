package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"landing-waitlist/pkg/metrics"
)

// Metrics counts requests by route template, method and status
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
