package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRouter(log *zap.Logger, skip ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(Recovery(log), GinMiddleware(log, skip...))
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestGinMiddleware(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	router := newRouter(zap.New(core))

	var fromRequest, fromGin *zap.Logger
	router.GET("/api/contact/:id", func(c *gin.Context) {
		fromRequest = FromContext(c.Request.Context())
		fromGin = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := serve(router, http.MethodGet, "/api/contact/7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, fromGin, fromRequest)

	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/contact/:id", fields["route"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   zapcore.Level
	}{
		{status: http.StatusBadRequest, want: zapcore.WarnLevel},
		{status: http.StatusBadGateway, want: zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		core, recorded := observer.New(zapcore.DebugLevel)
		router := newRouter(zap.New(core))
		router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

		serve(router, http.MethodGet, "/x")
		entries := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, entries, 1)
		assert.Equal(t, tt.want, entries[0].Level)
	}
}

func TestGinMiddleware_SkipPaths(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	router := newRouter(zap.New(core), "/health")
	healthy := true
	router.GET("/health", func(c *gin.Context) {
		if healthy {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusServiceUnavailable)
	})

	serve(router, http.MethodGet, "/health")
	assert.Equal(t, 0, recorded.FilterMessage("HTTP Request").Len())

	healthy = false
	serve(router, http.MethodGet, "/health")
	assert.Equal(t, 1, recorded.FilterMessage("HTTP Request").Len())
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	router := newRouter(zap.New(core))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"ERR_INTERNAL"`)
	assert.Contains(t, w.Body.String(), `"req-123"`)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_Default(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
