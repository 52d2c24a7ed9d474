package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/notification"
)

// LogMailer logs messages instead of sending them. Development only.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.With(zap.String("service", "mail"), zap.String("provider", ProviderLog))}
}

// Send implements notification.Mailer
func (m *LogMailer) Send(_ context.Context, msg *notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.String())
	}
	fields := []zap.Field{
		zap.Strings("to", to),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
		zap.Int("html_bytes", len(msg.HTML)),
	}
	if msg.ReplyTo != nil {
		fields = append(fields, zap.String("reply_to", msg.ReplyTo.Email))
	}
	m.logger.Info("Email not sent, log provider active", fields...)
	m.logger.Debug("Email body", zap.String("text", msg.Text))
	return nil
}
