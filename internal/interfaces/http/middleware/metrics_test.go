package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/erp/website/internal/infrastructure/telemetry"
)

func TestMetrics(t *testing.T) {
	metrics := telemetry.NewMetrics(telemetry.PrometheusConfig{Namespace: "test"})

	router := gin.New()
	router.Use(Metrics(metrics, "/metrics"))
	router.GET("/api/anaf-lookup", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	for _, path := range []string{"/api/anaf-lookup?cui=1", "/api/anaf-lookup?cui=2", "/nope", "/metrics"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP test_http_requests_total Total number of HTTP requests handled.
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/api/anaf-lookup",status="200"} 2
test_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "test_http_requests_total"))
}

func TestMetrics_NilIsPassThrough(t *testing.T) {
	router := gin.New()
	router.Use(Metrics(nil))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
