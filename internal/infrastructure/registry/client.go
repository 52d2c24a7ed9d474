// Package registry is the adapter for the openapi.ro company registry API.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/registry"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

const (
	serviceName     = "registry"
	defaultBaseURL  = "https://api.openapi.ro"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
)

// ErrConfigMissingAPIKey is returned by Validate without an API key
var ErrConfigMissingAPIKey = errors.New("registry: api key is required")

// Config holds configuration for the openapi.ro API
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// Client implements registry.Lookup against openapi.ro
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *telemetry.Metrics
}

// NewClient creates a registry client. A nil httpClient gets an instrumented one.
func NewClient(config *Config, httpClient *http.Client, logger *zap.Logger, metrics *telemetry.Metrics) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger.With(zap.String("service", serviceName)),
		metrics:    metrics,
	}, nil
}

// Lookup fetches the company registered under cui
func (c *Client) Lookup(ctx context.Context, cui registry.CUI) (*registry.Company, error) {
	start := time.Now()
	company, err := c.lookup(ctx, cui)
	c.metrics.ObserveOutbound(serviceName, "lookup", time.Since(start), err)

	switch {
	case err == nil:
		c.logger.Debug("Company found", zap.String("cui", cui.String()))
	case errors.Is(err, registry.ErrCompanyNotFound):
		c.logger.Info("Company not found", zap.String("cui", cui.String()))
	default:
		c.logger.Error("Company lookup failed", zap.String("cui", cui.String()), zap.Error(err))
	}
	return company, err
}

func (c *Client) lookup(ctx context.Context, cui registry.CUI) (*registry.Company, error) {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/api/companies/" + url.PathEscape(cui.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registry.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", registry.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, registry.ErrCompanyNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", registry.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, registry.ErrRateLimited
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", registry.ErrUnavailable, resp.StatusCode)
	}

	raw, err := decodeCompany(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid response: %w", registry.ErrUnavailable, err)
	}
	return toCompany(cui, raw), nil
}

func toCompany(cui registry.CUI, raw *openAPICompany) *registry.Company {
	// Prefer the code echoed by the API, it is stripped of any RO prefix
	if parsed, err := registry.ParseCUI(raw.CIF); err == nil {
		cui = parsed
	}
	return &registry.Company{
		CUI:                cui,
		Name:               strings.TrimSpace(raw.Name),
		Address:            strings.TrimSpace(raw.Address),
		County:             strings.TrimSpace(raw.County),
		City:               strings.TrimSpace(raw.City),
		PostalCode:         strings.TrimSpace(raw.PostalCode),
		RegistrationNumber: strings.TrimSpace(raw.RegistrationNumber),
		Phone:              strings.TrimSpace(raw.Phone),
		VATPayer:           bool(raw.VAT),
		VATOnCollection:    bool(raw.VATOnCollection),
		Deregistered:       bool(raw.Deregistered),
		LastUpdated:        raw.lastUpdated(),
	}
}

var _ registry.Lookup = (*Client)(nil)
