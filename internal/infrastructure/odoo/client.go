// Package odoo is the adapter for Odoo's external XML-RPC API.
//
// A Client authenticates per request and hands out a Session bound to the
// returned uid. Nothing is cached between requests.
package odoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/infrastructure/telemetry"
	"github.com/erp/website/internal/infrastructure/xmlrpc"
)

const serviceName = "odoo"

// Client talks to the common and object endpoints of one Odoo database
type Client struct {
	config  *Config
	common  *xmlrpc.Client
	object  *xmlrpc.Client
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	metrics    *telemetry.Metrics
}

// WithHTTPClient overrides the HTTP client used for XML-RPC calls
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithMetrics records every call in the given collectors
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// NewClient creates a new Odoo client with the given configuration
func NewClient(config *Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.httpClient == nil {
		options.httpClient = &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		config:  config,
		common:  xmlrpc.NewClient(config.endpoint(commonPath), xmlrpc.WithHTTPClient(options.httpClient)),
		object:  xmlrpc.NewClient(config.endpoint(objectPath), xmlrpc.WithHTTPClient(options.httpClient)),
		logger:  logger.With(zap.String("service", serviceName)),
		metrics: options.metrics,
	}, nil
}

// VersionInfo is the answer of common.version
type VersionInfo struct {
	ServerVersion   string
	ProtocolVersion int64
}

// Version returns the server version. It needs no credentials.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	result, err := c.call(ctx, c.common, "version", "version")
	if err != nil {
		return nil, err
	}

	fields, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: version returned %T", erp.ErrUnexpectedResult, result)
	}
	info := &VersionInfo{}
	info.ServerVersion, _ = fields["server_version"].(string)
	info.ProtocolVersion, _ = fields["protocol_version"].(int64)
	return info, nil
}

// Authenticate logs in and returns a session bound to the resulting uid.
//
// Transport failures are retried up to AuthAttempts times with a linear
// backoff. A rejected login is ErrAuthenticationFailed and is not retried.
func (c *Client) Authenticate(ctx context.Context) (*Session, error) {
	var uid int64
	attempt := 0

	err := retry.Do(ctx, c.authBackoff(), func(ctx context.Context) error {
		attempt++
		result, err := c.call(ctx, c.common, "authenticate", "authenticate",
			c.config.Database, c.config.Username, c.config.Password, map[string]any{})
		if err != nil {
			if errors.Is(err, erp.ErrUnavailable) {
				c.logger.Warn("Odoo authentication attempt failed",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", c.config.AuthAttempts),
					zap.Error(err),
				)
				return retry.RetryableError(err)
			}
			return err
		}

		// Odoo answers False for a rejected login
		id, ok := result.(int64)
		if !ok || id <= 0 {
			return erp.ErrAuthenticationFailed
		}
		uid = id
		return nil
	})
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, erp.ErrUnavailable) {
			err = fmt.Errorf("%w: %w", erp.ErrUnavailable, err)
		}
		return nil, err
	}

	c.logger.Debug("Odoo session opened", zap.Int64("uid", uid), zap.Int("attempts", attempt))
	return &Session{client: c, uid: uid}, nil
}

// authBackoff waits attempt*RetryDelay before each retry
func (c *Client) authBackoff() retry.Backoff {
	var n int64
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return time.Duration(n) * c.config.RetryDelay, false
	})
	return retry.WithMaxRetries(uint64(c.config.AuthAttempts-1), linear)
}

// call performs one XML-RPC call, mapping failures onto the erp sentinel errors
func (c *Client) call(ctx context.Context, rpc *xmlrpc.Client, operation, method string, params ...any) (any, error) {
	start := time.Now()
	c.logger.Debug("Odoo call", zap.String("operation", operation))

	result, err := rpc.Call(ctx, method, params...)
	err = mapError(err)
	c.metrics.ObserveOutbound(serviceName, operation, time.Since(start), err)
	if err != nil {
		c.logger.Warn("Odoo call failed",
			zap.String("operation", operation),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var fault *xmlrpc.Fault
	if errors.As(err, &fault) {
		return fmt.Errorf("%w: %w", erp.ErrRemoteFault, err)
	}
	var httpErr *xmlrpc.HTTPError
	if errors.As(err, &httpErr) || errors.Is(err, xmlrpc.ErrTransport) {
		return fmt.Errorf("%w: %w", erp.ErrUnavailable, err)
	}
	if errors.Is(err, xmlrpc.ErrMalformedResponse) || errors.Is(err, xmlrpc.ErrResponseTooLarge) {
		return fmt.Errorf("%w: %w", erp.ErrUnexpectedResult, err)
	}
	return err
}
