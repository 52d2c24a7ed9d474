// Package mail provides the notification.Mailer implementations and the
// templates of every transactional email the website sends.
package mail

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// NewMailer validates cfg and builds the configured provider.
// A nil httpClient gets an instrumented client with cfg.Timeout.
func NewMailer(cfg *Config, httpClient *http.Client, logger *zap.Logger, metrics *telemetry.Metrics) (notification.Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger.Info("Mail provider configured", zap.String("provider", cfg.Provider))
	switch cfg.Provider {
	case ProviderSendGrid:
		return NewSendGridMailer(cfg, httpClient, logger, metrics), nil
	case ProviderEmailJS:
		return NewEmailJSMailer(cfg, httpClient, logger, metrics), nil
	default:
		return NewLogMailer(logger), nil
	}
}
