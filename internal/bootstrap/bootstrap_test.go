package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/shared"
	"github.com/erp/website/internal/infrastructure/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "erp-website", Env: "development", Brand: "ERP", SiteURL: "https://erp.example.com"},
		Mail: config.MailConfig{
			Provider:        "log",
			FromName:        "ERP",
			FromEmail:       "noreply@erp.example.com",
			SalesInbox:      "sales@erp.example.com",
			OnboardingInbox: "onboarding@erp.example.com",
		},
	}
}

func TestNew_NothingConfigured(t *testing.T) {
	c, err := New(baseConfig(), zap.NewNop(), nil)
	require.NoError(t, err)

	assert.Nil(t, c.Odoo)
	assert.Nil(t, c.Gateway)
	assert.Nil(t, c.Lookup)
	assert.Nil(t, c.Completer)
	assert.NotNil(t, c.Mailer)
	assert.NotNil(t, c.Renderer)

	_, err = c.Registry.Lookup(context.Background(), "18547290")
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)

	_, err = c.Provisioning.Ping(context.Background())
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

func TestNew_AllConfigured(t *testing.T) {
	cfg := baseConfig()
	cfg.Odoo = config.OdooConfig{
		URL:      "https://erp.example.com",
		Database: "prod",
		Username: "api@erp.example.com",
		Password: "secret",
		Timeout:  10 * time.Second,
	}
	cfg.Registry = config.RegistryConfig{APIKey: "registry-key"}
	cfg.Anthropic = config.AnthropicConfig{APIKey: "sk-ant-test", Model: "claude-sonnet-4-5", MaxTokens: 1024}

	c, err := New(cfg, zap.NewNop(), nil)
	require.NoError(t, err)

	assert.NotNil(t, c.Odoo)
	assert.NotNil(t, c.Gateway)
	assert.NotNil(t, c.Lookup)
	assert.NotNil(t, c.Completer)
}

func TestNew_InvalidAdapters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"relative odoo url", func(c *config.Config) {
			c.Odoo = config.OdooConfig{URL: "erp.example.com", Database: "db", Username: "u", Password: "p"}
		}},
		{"sendgrid without key", func(c *config.Config) { c.Mail.Provider = "sendgrid" }},
		{"unknown mail provider", func(c *config.Config) { c.Mail.Provider = "smtp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)

			_, err := New(cfg, zap.NewNop(), nil)
			assert.Error(t, err)
		})
	}
}
