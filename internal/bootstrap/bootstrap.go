// Package bootstrap builds the upstream adapters and the application
// services from configuration. The server and the CLI share it.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	contactapp "github.com/erp/website/internal/application/contact"
	onboardingapp "github.com/erp/website/internal/application/onboarding"
	provisioningapp "github.com/erp/website/internal/application/provisioning"
	registryapp "github.com/erp/website/internal/application/registry"
	translationapp "github.com/erp/website/internal/application/translation"
	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/domain/registry"
	"github.com/erp/website/internal/domain/translation"
	"github.com/erp/website/internal/infrastructure/config"
	"github.com/erp/website/internal/infrastructure/llm"
	"github.com/erp/website/internal/infrastructure/mail"
	"github.com/erp/website/internal/infrastructure/odoo"
	registryclient "github.com/erp/website/internal/infrastructure/registry"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// Container holds the wired services. Adapters of unconfigured upstreams are
// nil and the services answer "not configured" for them.
type Container struct {
	Odoo      *odoo.Client
	Gateway   erp.Gateway
	Mailer    notification.Mailer
	Renderer  notification.Renderer
	Lookup    registry.Lookup
	Completer translation.Completer

	Provisioning *provisioningapp.Service
	Contact      *contactapp.Service
	Onboarding   *onboardingapp.Service
	Registry     *registryapp.Service
	Translation  *translationapp.Service
}

// New wires every adapter enabled in cfg. metrics may be nil.
func New(cfg *config.Config, log *zap.Logger, metrics *telemetry.Metrics) (*Container, error) {
	c := &Container{}

	if cfg.Odoo.Enabled() {
		client, err := odoo.NewClient(&odoo.Config{
			URL:          cfg.Odoo.URL,
			Database:     cfg.Odoo.Database,
			Username:     cfg.Odoo.Username,
			Password:     cfg.Odoo.Password,
			Timeout:      cfg.Odoo.Timeout,
			AuthAttempts: cfg.Odoo.AuthAttempts,
			RetryDelay:   cfg.Odoo.RetryDelay,
		}, log, odoo.WithMetrics(metrics))
		if err != nil {
			return nil, fmt.Errorf("odoo: %w", err)
		}
		c.Odoo = client
		c.Gateway = odoo.NewGateway(client)
		log.Info("Odoo integration enabled", zap.String("url", cfg.Odoo.URL), zap.String("database", cfg.Odoo.Database))
	} else {
		log.Warn("Odoo is not configured, company provisioning is disabled")
	}

	mailer, err := mail.NewMailer(mailConfig(cfg), nil, log, metrics)
	if err != nil {
		return nil, fmt.Errorf("mail: %w", err)
	}
	renderer, err := mail.NewRenderer(cfg.App.Brand, cfg.App.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("mail templates: %w", err)
	}
	c.Mailer, c.Renderer = mailer, renderer

	if cfg.Registry.Enabled() {
		client, err := registryclient.NewClient(&registryclient.Config{
			BaseURL: cfg.Registry.BaseURL,
			APIKey:  cfg.Registry.APIKey,
			Timeout: cfg.Registry.Timeout,
		}, nil, log, metrics)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		c.Lookup = client
	} else {
		log.Warn("Company registry API key is not set, CUI lookups are disabled")
	}

	if cfg.Anthropic.Enabled() {
		completer, err := llm.NewAnthropicCompleter(&llm.Config{
			APIKey:     cfg.Anthropic.APIKey,
			BaseURL:    cfg.Anthropic.BaseURL,
			Model:      cfg.Anthropic.Model,
			MaxTokens:  cfg.Anthropic.MaxTokens,
			Timeout:    cfg.Anthropic.Timeout,
			MaxRetries: cfg.Anthropic.MaxRetries,
		}, nil, log, metrics)
		if err != nil {
			return nil, fmt.Errorf("anthropic: %w", err)
		}
		c.Completer = completer
	} else {
		log.Warn("Anthropic API key is not set, translation scoring is disabled")
	}

	sales := notification.Address{Name: cfg.App.Brand, Email: cfg.Mail.SalesInbox}
	onboardingTeam := notification.Address{Name: cfg.App.Brand, Email: cfg.Mail.OnboardingInbox}

	c.Provisioning = provisioningapp.NewService(c.Gateway, c.Mailer, c.Renderer, cfg.Odoo.LoginURL, log)
	c.Contact = contactapp.NewService(c.Mailer, c.Renderer, sales, log)
	c.Onboarding = onboardingapp.NewService(c.Gateway, c.Mailer, c.Renderer, onboardingTeam, log)
	c.Registry = registryapp.NewService(c.Lookup, log)
	c.Translation = translationapp.NewService(c.Completer, log)
	return c, nil
}

func mailConfig(cfg *config.Config) *mail.Config {
	return &mail.Config{
		Provider: cfg.Mail.Provider,
		From:     notification.Address{Name: cfg.Mail.FromName, Email: cfg.Mail.FromEmail},
		Timeout:  cfg.Mail.Timeout,
		SendGrid: mail.SendGridConfig{
			APIKey:     cfg.Mail.SendGridAPIKey,
			Host:       cfg.Mail.SendGridHost,
			Categories: cfg.Mail.SendGridCategories,
		},
		EmailJS: mail.EmailJSConfig{
			ServiceID:  cfg.Mail.EmailJSServiceID,
			TemplateID: cfg.Mail.EmailJSTemplateID,
			Templates:  cfg.Mail.EmailJSTemplates,
			PublicKey:  cfg.Mail.EmailJSPublicKey,
			PrivateKey: cfg.Mail.EmailJSPrivateKey,
			BaseURL:    cfg.Mail.EmailJSBaseURL,
		},
	}
}
