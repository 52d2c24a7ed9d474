// Package onboarding turns onboarding form submissions into CRM leads and
// notifications.
package onboarding

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/website/internal/application/upstream"
	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/domain/onboarding"
	"github.com/erp/website/internal/domain/provisioning"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// SubmitResponse reports the outcome of an onboarding submission
type SubmitResponse struct {
	Reference        string `json:"reference"`
	LeadID           *int64 `json:"lead_id,omitempty"`
	ConfirmationSent bool   `json:"confirmation_sent"`
}

// Service handles onboarding submissions
type Service struct {
	gateway  erp.Gateway
	mailer   notification.Mailer
	renderer notification.Renderer
	team     notification.Address
	logger   *zap.Logger
}

// NewService creates a new onboarding Service. gateway is optional, mailer and
// renderer are required for submissions to succeed.
func NewService(gateway erp.Gateway, mailer notification.Mailer, renderer notification.Renderer, team notification.Address, logger *zap.Logger) *Service {
	return &Service{
		gateway:  gateway,
		mailer:   mailer,
		renderer: renderer,
		team:     team,
		logger:   logger.With(zap.String("service", "onboarding")),
	}
}

// Submit records the application as a CRM lead when the ERP is configured,
// notifies the team and confirms to the applicant.
// The lead and the confirmation are best effort; the team notification is not.
func (s *Service) Submit(ctx context.Context, app onboarding.Application) (*SubmitResponse, error) {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	if s.mailer == nil || s.renderer == nil {
		return nil, upstream.FromMail(notification.ErrNotConfigured, "")
	}

	log := s.logger.With(zap.String("company", app.CompanyName), zap.String("email", app.Email))
	resp := &SubmitResponse{Reference: app.Reference()}

	leadID, ok := s.createLead(ctx, &app, log)
	if ok {
		resp.LeadID = &leadID
	}

	data := notification.OnboardingData{
		CompanyName: app.CompanyName,
		CUI:         app.CUI,
		Industry:    app.Industry,
		Employees:   app.Employees,
		ContactName: app.ContactName,
		Email:       app.Email,
		Phone:       app.Phone,
		Modules:     app.Modules,
		Notes:       app.Notes,
		LeadID:      leadID,
	}
	applicant := notification.Address{Name: app.ContactName, Email: app.Email}

	msg, err := s.renderer.Render(notification.TemplateOnboardingNotification, data)
	if err != nil {
		log.Error("Failed to render onboarding notification", zap.Error(err))
		return nil, upstream.FromMail(err, "Could not prepare the onboarding request")
	}
	msg.To = []notification.Address{s.team}
	msg.ReplyTo = &applicant
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error("Failed to deliver onboarding notification", zap.Error(err))
		return nil, upstream.FromMail(err, "Could not submit the onboarding request, please try again later")
	}
	log.Info("Onboarding request delivered", zap.Int64("lead_id", leadID))

	resp.ConfirmationSent = s.confirm(ctx, data, applicant, log)
	return resp, nil
}

func (s *Service) createLead(ctx context.Context, app *onboarding.Application, log *zap.Logger) (int64, bool) {
	if s.gateway == nil {
		return 0, false
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "onboarding", "create_lead",
		telemetry.SpanAttrCompanyName, app.CompanyName,
	)
	defer span.End()

	session, err := s.gateway.Connect(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Warn("CRM lead not created, ERP connection failed", zap.Error(err))
		return 0, false
	}

	lead := erp.LeadRecord{
		Name:        app.LeadName(),
		PartnerName: app.CompanyName,
		ContactName: app.ContactName,
		Email:       app.Email,
		Phone:       app.Phone,
		Description: app.Summary(),
	}
	if app.CUI != "" {
		// A fiscal code means a Romanian company
		if id, found, err := session.FindCountryID(ctx, provisioning.DefaultCountryCode); err == nil && found {
			lead.CountryID = id
		}
	}

	id, err := session.CreateLead(ctx, lead)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Warn("CRM lead not created", zap.Error(err))
		return 0, false
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLeadID, id)
	return id, true
}

func (s *Service) confirm(ctx context.Context, data notification.OnboardingData, to notification.Address, log *zap.Logger) bool {
	msg, err := s.renderer.Render(notification.TemplateOnboardingConfirmation, data)
	if err == nil {
		msg.To = []notification.Address{to}
		msg.ReplyTo = &s.team
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		log.Warn("Onboarding confirmation not sent", zap.Error(err))
		return false
	}
	return true
}
