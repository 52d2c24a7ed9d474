package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/website/internal/infrastructure/logger"
	"github.com/erp/website/internal/infrastructure/telemetry"
	"github.com/erp/website/internal/interfaces/http/dto"
	"github.com/erp/website/internal/interfaces/http/middleware"
)

// EngineConfig configures the middleware chain of the engine
type EngineConfig struct {
	ServiceName    string
	Production     bool
	TrustedProxies []string

	CORS     middleware.CORSConfig
	Security middleware.SecurityConfig
	// MaxBodySize caps request bodies, zero disables the limit
	MaxBodySize int64
	// RequestTimeout bounds the context of every request, zero disables it
	RequestTimeout time.Duration
	// RateLimiter applies to every route. nil disables global rate limiting.
	RateLimiter *middleware.RateLimiter

	TracingEnabled bool
	// Metrics may be nil. MetricsPath is only mounted when it is set.
	Metrics     *telemetry.Metrics
	MetricsPath string

	// QuietPaths are logged and traced only when they fail
	QuietPaths []string
}

// NewEngine creates a gin engine with the middleware chain applied in order:
//
//	RequestID, Tracing, Logger, Recovery, Metrics, Security, CORS, BodyLimit, Timeout, RateLimit
//
// Recovery sits inside the logger so a recovered panic is still logged as a 500.
func NewEngine(cfg EngineConfig, log *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("Failed to set trusted proxies", zap.Error(err))
	}

	quiet := append([]string{}, cfg.QuietPaths...)
	if cfg.MetricsPath != "" {
		quiet = append(quiet, cfg.MetricsPath)
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
		SkipPaths:   quiet,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log, quiet...))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Metrics(cfg.Metrics, quiet...))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(middleware.Timeout(cfg.RequestTimeout))
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	if cfg.MetricsPath != "" && cfg.Metrics != nil {
		engine.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c),
		))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", middleware.GetRequestID(c),
		))
	})

	return engine
}
