// Package llm adapts hosted language models to translation.Completer.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/translation"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

const serviceName = "anthropic"

// Defaults for Config
const (
	DefaultModel      = "claude-sonnet-4-5"
	DefaultMaxTokens  = 2048
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 2
)

// ErrConfigMissingAPIKey is returned by Validate without an API key
var ErrConfigMissingAPIKey = errors.New("llm: anthropic api key is required")

// Config holds configuration for the Anthropic Messages API
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	// MaxRetries is handed to the SDK, which retries 429 and 5xx responses.
	// Negative disables retries.
	MaxRetries int
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	return nil
}

// AnthropicCompleter implements translation.Completer with Claude
type AnthropicCompleter struct {
	client  anthropic.Client
	config  *Config
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewAnthropicCompleter creates a completer. A nil httpClient gets an instrumented one.
func NewAnthropicCompleter(config *Config, httpClient *http.Client, logger *zap.Logger, metrics *telemetry.Metrics) (*AnthropicCompleter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithRequestTimeout(config.Timeout),
		option.WithMaxRetries(max(config.MaxRetries, 0)),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicCompleter{
		client:  anthropic.NewClient(opts...),
		config:  config,
		logger:  logger.With(zap.String("service", serviceName), zap.String("model", config.Model)),
		metrics: metrics,
	}, nil
}

// Complete sends prompt with the system instructions and returns the text of the reply
func (c *AnthropicCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: c.config.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	c.logger.Debug("Sending completion request", zap.Int("prompt_length", len(prompt)))
	start := time.Now()
	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		err = mapError(err)
		c.metrics.ObserveOutbound(serviceName, "messages", time.Since(start), err)
		c.logger.Error("Completion request failed", zap.Error(err))
		return "", err
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		err = fmt.Errorf("%w: reply has no text content", translation.ErrUnparsableReply)
		c.metrics.ObserveOutbound(serviceName, "messages", time.Since(start), err)
		return "", err
	}

	c.metrics.ObserveOutbound(serviceName, "messages", time.Since(start), nil)
	c.logger.Debug("Completion received",
		zap.String("stop_reason", string(message.StopReason)),
		zap.Int64("input_tokens", message.Usage.InputTokens),
		zap.Int64("output_tokens", message.Usage.OutputTokens),
	)
	return b.String(), nil
}

func mapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: HTTP %d", translation.ErrModelAuth, apiErr.StatusCode)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: HTTP %d", translation.ErrModelRateLimited, apiErr.StatusCode)
		default:
			return fmt.Errorf("%w: HTTP %d", translation.ErrModelUnavailable, apiErr.StatusCode)
		}
	}
	return fmt.Errorf("%w: %w", translation.ErrModelUnavailable, err)
}

var _ translation.Completer = (*AnthropicCompleter)(nil)
