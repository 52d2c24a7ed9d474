package mail

import (
	"errors"
	"fmt"
	"time"

	"github.com/erp/website/internal/domain/notification"
)

// Provider names
const (
	ProviderSendGrid = "sendgrid"
	ProviderEmailJS  = "emailjs"
	ProviderLog      = "log"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultEmailJSURL    = "https://api.emailjs.com"
	defaultSendGridHost  = "https://api.sendgrid.com"
	sendGridMailEndpoint = "/v3/mail/send"
	emailJSSendEndpoint  = "/api/v1.0/email/send"
)

// Errors for mail configuration
var (
	ErrConfigUnknownProvider = errors.New("mail: unknown provider")
	ErrConfigMissingFrom     = errors.New("mail: sender address is required")
	ErrConfigMissingAPIKey   = errors.New("mail: sendgrid api key is required")
	ErrConfigMissingEmailJS  = errors.New("mail: emailjs service id, template id and public key are required")
)

// Config selects and configures the mail provider
type Config struct {
	Provider string
	From     notification.Address
	Timeout  time.Duration

	SendGrid SendGridConfig
	EmailJS  EmailJSConfig
}

// SendGridConfig holds SendGrid v3 API settings
type SendGridConfig struct {
	APIKey string
	// Host overrides https://api.sendgrid.com
	Host string
	// Categories are attached to every message for SendGrid statistics
	Categories []string
}

// EmailJSConfig holds EmailJS REST API settings
type EmailJSConfig struct {
	ServiceID string
	// TemplateID is the template used when no per-template mapping exists
	TemplateID string
	// Templates maps local template names to EmailJS template IDs
	Templates  map[string]string
	PublicKey  string
	PrivateKey string
	// BaseURL overrides https://api.emailjs.com
	BaseURL string
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	switch c.Provider {
	case ProviderLog:
		return nil
	case ProviderSendGrid:
		if c.SendGrid.APIKey == "" {
			return ErrConfigMissingAPIKey
		}
		if c.SendGrid.Host == "" {
			c.SendGrid.Host = defaultSendGridHost
		}
	case ProviderEmailJS:
		if c.EmailJS.ServiceID == "" || c.EmailJS.TemplateID == "" || c.EmailJS.PublicKey == "" {
			return ErrConfigMissingEmailJS
		}
		if c.EmailJS.BaseURL == "" {
			c.EmailJS.BaseURL = defaultEmailJSURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrConfigUnknownProvider, c.Provider)
	}

	if err := c.From.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigMissingFrom, err)
	}
	return nil
}
