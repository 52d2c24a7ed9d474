package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erp/website/internal/infrastructure/telemetry"
)

// unmatchedRoute labels requests that matched no route, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// Metrics records Prometheus request counters and latencies by route pattern.
// skipPaths (typically /metrics itself) are not recorded.
func Metrics(metrics *telemetry.Metrics, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
