package odoo

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config holds configuration for the Odoo external API
type Config struct {
	// URL is the base URL of the Odoo instance, e.g. https://erp.example.com
	URL string
	// Database is the Odoo database name
	Database string
	// Username is the login used for authentication
	Username string
	// Password is the password or API key of Username
	Password string
	// Timeout is the HTTP timeout of a single XML-RPC call
	Timeout time.Duration
	// AuthAttempts is the number of authentication attempts before giving up
	AuthAttempts int
	// RetryDelay is the base delay between attempts. Attempt N waits N*RetryDelay.
	RetryDelay time.Duration
}

const (
	defaultTimeout      = 30 * time.Second
	defaultAuthAttempts = 3
	defaultRetryDelay   = time.Second

	commonPath = "/xmlrpc/2/common"
	objectPath = "/xmlrpc/2/object"
)

// Errors for Odoo configuration
var (
	ErrConfigMissingURL      = errors.New("odoo: url is required")
	ErrConfigInvalidURL      = errors.New("odoo: url must be an absolute http(s) URL")
	ErrConfigMissingDatabase = errors.New("odoo: database is required")
	ErrConfigMissingUsername = errors.New("odoo: username is required")
	ErrConfigMissingPassword = errors.New("odoo: password is required")
)

// Enabled reports whether an Odoo instance is configured at all
func (c *Config) Enabled() bool {
	return c != nil && c.URL != ""
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrConfigMissingURL
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrConfigInvalidURL
	}
	if c.Database == "" {
		return ErrConfigMissingDatabase
	}
	if c.Username == "" {
		return ErrConfigMissingUsername
	}
	if c.Password == "" {
		return ErrConfigMissingPassword
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.AuthAttempts <= 0 {
		c.AuthAttempts = defaultAuthAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	return nil
}

func (c *Config) endpoint(path string) string {
	return strings.TrimRight(c.URL, "/") + path
}
