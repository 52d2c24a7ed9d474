package xmlrpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultMaxResponseSize is the maximum accepted methodResponse size (10MB)
const defaultMaxResponseSize = 10 * 1024 * 1024

var (
	// ErrTransport indicates the request never produced an HTTP response
	ErrTransport = errors.New("xmlrpc: transport error")
	// ErrResponseTooLarge indicates the methodResponse exceeded the size limit
	ErrResponseTooLarge = errors.New("xmlrpc: response too large")
)

// HTTPError is returned when the endpoint answers with a non-2xx status
type HTTPError struct {
	StatusCode int
	Endpoint   string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("xmlrpc: %s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// Client calls methods on a single XML-RPC endpoint
type Client struct {
	endpoint        string
	httpClient      *http.Client
	maxResponseSize int64
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the http.Client used for calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxResponseSize bounds the accepted response body in bytes
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseSize = n
		}
	}
}

// NewClient creates a client for the given endpoint URL
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:        endpoint,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		maxResponseSize: defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call invokes method with params and returns the decoded result
func (c *Client) Call(ctx context.Context, method string, params ...any) (any, error) {
	body, err := EncodeCall(method, params...)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}
	if int64(len(data)) > c.maxResponseSize {
		return nil, fmt.Errorf("%w: %s %s exceeded %d bytes", ErrResponseTooLarge, c.endpoint, method, c.maxResponseSize)
	}

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Endpoint: c.endpoint}
	}

	return DecodeResponse(data)
}
