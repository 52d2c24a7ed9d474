// Package contact delivers contact form inquiries to the sales inbox.
package contact

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/website/internal/application/upstream"
	"github.com/erp/website/internal/domain/contact"
	"github.com/erp/website/internal/domain/notification"
)

// SubmitResponse reports what happened to an inquiry
type SubmitResponse struct {
	Message       string `json:"message"`
	AutoReplySent bool   `json:"auto_reply_sent"`
}

const thankYou = "Thank you, we will get back to you shortly."

// Service handles contact form submissions
type Service struct {
	mailer     notification.Mailer
	renderer   notification.Renderer
	salesInbox notification.Address
	logger     *zap.Logger
}

// NewService creates a new contact Service. mailer may be nil when email is not configured.
func NewService(mailer notification.Mailer, renderer notification.Renderer, salesInbox notification.Address, logger *zap.Logger) *Service {
	return &Service{
		mailer:     mailer,
		renderer:   renderer,
		salesInbox: salesInbox,
		logger:     logger.With(zap.String("service", "contact")),
	}
}

// Submit sends the inquiry to the sales inbox, then an auto-reply to the sender.
// Only the sales notification is required to succeed.
func (s *Service) Submit(ctx context.Context, inquiry contact.Inquiry) (*SubmitResponse, error) {
	inquiry.Normalize()
	if inquiry.IsSpam() {
		// Answer like a real submission so bots learn nothing
		s.logger.Info("Contact inquiry dropped by honeypot", zap.String("email", inquiry.Email))
		return &SubmitResponse{Message: thankYou}, nil
	}
	if err := inquiry.Validate(); err != nil {
		return nil, err
	}
	if s.mailer == nil || s.renderer == nil {
		return nil, upstream.FromMail(notification.ErrNotConfigured, "")
	}

	data := notification.ContactData{
		Name:    inquiry.Name,
		Email:   inquiry.Email,
		Phone:   inquiry.Phone,
		Company: inquiry.Company,
		Subject: inquiry.Subject,
		Service: inquiry.Service,
		Message: inquiry.Message,
	}
	sender := notification.Address{Name: inquiry.Name, Email: inquiry.Email}
	log := s.logger.With(zap.String("email", inquiry.Email))

	msg, err := s.renderer.Render(notification.TemplateContactNotification, data)
	if err != nil {
		log.Error("Failed to render contact notification", zap.Error(err))
		return nil, upstream.FromMail(err, "Could not prepare the message")
	}
	msg.To = []notification.Address{s.salesInbox}
	msg.ReplyTo = &sender
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error("Failed to deliver contact inquiry", zap.Error(err))
		return nil, upstream.FromMail(err, "Could not deliver your message, please try again later")
	}
	log.Info("Contact inquiry delivered", zap.String("subject", inquiry.SubjectLine()))

	return &SubmitResponse{Message: thankYou, AutoReplySent: s.autoReply(ctx, data, sender, log)}, nil
}

func (s *Service) autoReply(ctx context.Context, data notification.ContactData, to notification.Address, log *zap.Logger) bool {
	msg, err := s.renderer.Render(notification.TemplateContactAutoReply, data)
	if err == nil {
		msg.To = []notification.Address{to}
		msg.ReplyTo = &s.salesInbox
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		log.Warn("Contact auto-reply not sent", zap.Error(err))
		return false
	}
	return true
}
