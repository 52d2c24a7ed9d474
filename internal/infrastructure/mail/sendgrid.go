package mail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// SendGridMailer delivers messages through the SendGrid v3 mail send API
type SendGridMailer struct {
	config  *SendGridConfig
	from    notification.Address
	client  *rest.Client
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewSendGridMailer creates a SendGrid mailer
func NewSendGridMailer(cfg *Config, httpClient *http.Client, logger *zap.Logger, metrics *telemetry.Metrics) *SendGridMailer {
	return &SendGridMailer{
		config:  &cfg.SendGrid,
		from:    cfg.From,
		client:  &rest.Client{HTTPClient: httpClient},
		logger:  logger.With(zap.String("service", "mail"), zap.String("provider", ProviderSendGrid)),
		metrics: metrics,
	}
}

// Send implements notification.Mailer
func (m *SendGridMailer) Send(ctx context.Context, msg *notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	request := sendgrid.GetRequest(m.config.APIKey, sendGridMailEndpoint, m.config.Host)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(m.build(msg))

	start := time.Now()
	response, err := m.client.SendWithContext(ctx, request)
	if err != nil {
		err = fmt.Errorf("%w: %w", notification.ErrDeliveryFailed, err)
	} else {
		err = statusError(response.StatusCode, response.Body)
	}
	m.metrics.ObserveOutbound("mail", ProviderSendGrid, time.Since(start), err)
	if err != nil {
		m.logger.Error("SendGrid delivery failed", zap.String("template", msg.Template), zap.Error(err))
		return err
	}

	m.logger.Debug("SendGrid message accepted",
		zap.String("template", msg.Template),
		zap.Int("recipients", len(msg.To)),
	)
	return nil
}

func (m *SendGridMailer) build(msg *notification.Message) *sgmail.SGMailV3 {
	from := msg.From
	if from.Email == "" {
		from = m.from
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgmail.NewEmail(from.Name, from.Email))
	v3.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Email))
	}
	v3.AddPersonalizations(p)

	if msg.ReplyTo != nil {
		v3.SetReplyTo(sgmail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Email))
	}

	// text/plain must precede text/html
	if msg.Text != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	categories := append([]string{}, m.config.Categories...)
	if msg.Template != "" {
		categories = append(categories, msg.Template)
	}
	if len(categories) > 0 {
		v3.AddCategories(categories...)
	}
	return v3
}

// statusError maps a provider HTTP status onto the notification errors
func statusError(status int, body string) error {
	switch {
	case status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", notification.ErrProviderAuth, status)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", notification.ErrDeliveryFailed, status, truncate(body, 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
