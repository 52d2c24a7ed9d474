package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/erp/website/internal/bootstrap"
	"github.com/erp/website/internal/infrastructure/config"
	"github.com/erp/website/internal/infrastructure/logger"
	"github.com/erp/website/internal/infrastructure/telemetry"
	"github.com/erp/website/internal/interfaces/http/handler"
	"github.com/erp/website/internal/interfaces/http/middleware"
	"github.com/erp/website/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			ERP Website API
//	@version		1.0
//	@description	Backend of the marketing website: company sign-up, contact and onboarding forms,
//	@description	company registry lookup and translation scoring.

//	@contact.name	Website Support
//	@contact.email	support@erp.example.com

//	@host		localhost:3001
//	@BasePath	/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, zap.String("service", cfg.App.Name), zap.String("version", version))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	otelCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// Tracing and log export
	tp, err := telemetry.NewTracerProvider(ctx, otelCfg, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, otelCfg, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	level, _ := logger.ParseLevel(cfg.Log.Level)
	log := lp.Bridge(baseLog, level)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ERP website backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnabled {
		promCfg := telemetry.DefaultPrometheusConfig()
		promCfg.Namespace = cfg.Telemetry.MetricsNamespace
		metrics = telemetry.NewMetrics(promCfg)
	}

	// Adapters and services
	container, err := bootstrap.New(cfg, log, metrics)
	if err != nil {
		log.Fatal("Failed to wire services", zap.Error(err))
	}

	engine := router.NewEngine(engineConfig(cfg, metrics, log), log)

	var formLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		formLimiter = middleware.NewRateLimiter(cfg.HTTP.FormRateLimitRequests, cfg.HTTP.FormRateLimitWindow, 0)
	}
	handlers := router.Handlers{
		Company:     handler.NewCompanyHandler(container.Provisioning),
		Contact:     handler.NewContactHandler(container.Contact),
		Registry:    handler.NewRegistryHandler(container.Registry),
		Translation: handler.NewTranslationHandler(container.Translation),
		Onboarding:  handler.NewOnboardingHandler(container.Onboarding),
		System:      handler.NewSystemHandler(cfg.App.Name, version, container.Provisioning),
	}
	router.NewRouter(engine).Register(router.Routes(handlers, formLimiter)...).Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Failed to flush logs", zap.Error(err))
	}

	baseLog.Info("Server exited gracefully")
}

func engineConfig(cfg *config.Config, metrics *telemetry.Metrics, log *zap.Logger) router.EngineConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.HTTP.HSTSEnabled

	ec := router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Production:     cfg.App.IsProduction(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS:           cors,
		Security:       security,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		TracingEnabled: cfg.Telemetry.Enabled,
		Metrics:        metrics,
		QuietPaths:     []string{"/health"},
	}
	if metrics != nil {
		ec.MetricsPath = cfg.Telemetry.MetricsPath
	}
	if cfg.HTTP.RateLimitEnabled {
		ec.RateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Int("form_requests", cfg.HTTP.FormRateLimitRequests),
		)
	}
	return ec
}
