package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// emailJSRequest is the body of POST /api/v1.0/email/send
type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// EmailJSMailer delivers messages through the EmailJS REST API.
// The message is rendered locally and passed to a generic EmailJS template
// as message_html and message_text.
type EmailJSMailer struct {
	config     *EmailJSConfig
	from       notification.Address
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *telemetry.Metrics
}

// NewEmailJSMailer creates an EmailJS mailer
func NewEmailJSMailer(cfg *Config, httpClient *http.Client, logger *zap.Logger, metrics *telemetry.Metrics) *EmailJSMailer {
	return &EmailJSMailer{
		config:     &cfg.EmailJS,
		from:       cfg.From,
		httpClient: httpClient,
		logger:     logger.With(zap.String("service", "mail"), zap.String("provider", ProviderEmailJS)),
		metrics:    metrics,
	}
}

// Send implements notification.Mailer
func (m *EmailJSMailer) Send(ctx context.Context, msg *notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(m.build(msg))
	if err != nil {
		return fmt.Errorf("emailjs: failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(m.config.BaseURL, "/") + emailJSSendEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	err = m.do(req)
	m.metrics.ObserveOutbound("mail", ProviderEmailJS, time.Since(start), err)
	if err != nil {
		m.logger.Error("EmailJS delivery failed", zap.String("template", msg.Template), zap.Error(err))
		return err
	}

	m.logger.Debug("EmailJS message accepted", zap.String("template", msg.Template))
	return nil
}

func (m *EmailJSMailer) do(req *http.Request) error {
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", notification.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return statusError(resp.StatusCode, string(data))
}

func (m *EmailJSMailer) build(msg *notification.Message) *emailJSRequest {
	from := msg.From
	if from.Email == "" {
		from = m.from
	}

	params := make(map[string]string, len(msg.TemplateParams)+8)
	for k, v := range msg.TemplateParams {
		params[k] = v
	}

	emails := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		emails = append(emails, to.Email)
	}
	params["to_email"] = strings.Join(emails, ",")
	params["to_name"] = msg.To[0].Name
	params["from_name"] = from.Name
	params["from_email"] = from.Email
	params["subject"] = msg.Subject
	params["message_html"] = msg.HTML
	params["message_text"] = msg.Text
	if msg.ReplyTo != nil {
		params["reply_to"] = msg.ReplyTo.Email
	}

	templateID := m.config.TemplateID
	if id, ok := m.config.Templates[msg.Template]; ok && id != "" {
		templateID = id
	}

	return &emailJSRequest{
		ServiceID:      m.config.ServiceID,
		TemplateID:     templateID,
		UserID:         m.config.PublicKey,
		AccessToken:    m.config.PrivateKey,
		TemplateParams: params,
	}
}
