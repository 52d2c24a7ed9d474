// Package provisioning orchestrates the creation of a customer company,
// its administrator and the welcome email.
package provisioning

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/website/internal/application/upstream"
	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/domain/provisioning"
	"github.com/erp/website/internal/domain/shared"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// Service provisions companies in the ERP
type Service struct {
	gateway  erp.Gateway
	mailer   notification.Mailer
	renderer notification.Renderer
	loginURL string
	logger   *zap.Logger
}

// NewService creates a new provisioning Service.
// gateway may be nil when the ERP is not configured. mailer and renderer may be
// nil, the welcome email is then skipped.
func NewService(gateway erp.Gateway, mailer notification.Mailer, renderer notification.Renderer, loginURL string, logger *zap.Logger) *Service {
	return &Service{
		gateway:  gateway,
		mailer:   mailer,
		renderer: renderer,
		loginURL: loginURL,
		logger:   logger.With(zap.String("service", "provisioning")),
	}
}

// CreateCompany provisions the partner, company and administrator described by req.
// Steps run in order, each using the IDs created by the previous ones. The welcome
// email is best effort.
func (s *Service) CreateCompany(ctx context.Context, req provisioning.Request) (*CreateCompanyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "provisioning", "create_company")
	defer span.End()

	resp, err := s.createCompany(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPartnerID, resp.PartnerID,
		telemetry.SpanAttrCompanyID, resp.CompanyID,
		telemetry.SpanAttrUserID, resp.UserID,
		telemetry.SpanAttrMailSent, resp.WelcomeEmailSent,
	)
	return resp, nil
}

func (s *Service) createCompany(ctx context.Context, req provisioning.Request) (*CreateCompanyResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, upstream.FromERP(erp.ErrNotConfigured, "")
	}

	result := &provisioning.Result{Login: req.AdminEmail}
	if req.AdminPassword == "" {
		password, err := generatePassword()
		if err != nil {
			return nil, fmt.Errorf("provisioning: generate password: %w", err)
		}
		req.AdminPassword = password
		result.GeneratedPassword = password
	}

	log := s.logger.With(zap.String("company", req.CompanyName), zap.String("login", req.AdminEmail))

	session, err := s.gateway.Connect(ctx)
	if err != nil {
		log.Error("ERP authentication failed", zap.Error(err))
		return nil, upstream.FromERP(err, "Could not connect to the ERP")
	}

	countryID, err := s.resolveCountry(ctx, session, req.CountryCode, log)
	if err != nil {
		return nil, upstream.FromERP(err, "Could not resolve the company country")
	}

	address := erp.Address{Street: req.Street, City: req.City, Zip: req.Zip, Country: countryID}
	result.PartnerID, err = session.CreatePartner(ctx, erp.PartnerRecord{
		Name:            req.CompanyName,
		IsCompany:       true,
		VAT:             req.VATCode(),
		CompanyRegistry: req.RegistrationNumber,
		Email:           req.CompanyEmail,
		Phone:           req.Phone,
		Website:         req.Website,
		Address:         address,
	})
	if err != nil {
		log.Error("Failed to create partner", zap.Error(err))
		return nil, upstream.FromERP(err, "Could not create the company partner")
	}
	log = log.With(zap.Int64("partner_id", result.PartnerID))

	result.CompanyID, err = session.CreateCompany(ctx, erp.CompanyRecord{
		Name:            req.CompanyName,
		PartnerID:       result.PartnerID,
		Email:           req.CompanyEmail,
		Phone:           req.Phone,
		VAT:             req.VATCode(),
		CompanyRegistry: req.RegistrationNumber,
		CountryID:       countryID,
	})
	if err != nil {
		log.Error("Failed to create company", zap.Error(err))
		return nil, upstream.FromERP(err, "Could not create the company")
	}
	log = log.With(zap.Int64("company_id", result.CompanyID))

	groupIDs, err := session.ResolveReferences(ctx, erp.AdminGroups()...)
	if err != nil {
		log.Error("Failed to resolve administrator groups", zap.Error(err))
		return nil, upstream.FromERP(err, "Could not resolve the administrator access groups")
	}

	result.UserID, err = session.CreateUser(ctx, erp.UserRecord{
		Name:       req.AdminName,
		Login:      req.AdminEmail,
		Email:      req.AdminEmail,
		Password:   req.AdminPassword,
		CompanyID:  result.CompanyID,
		CompanyIDs: []int64{result.CompanyID},
		GroupIDs:   groupIDs,
		Lang:       req.Lang,
	})
	if err != nil {
		log.Error("Failed to create administrator", zap.Error(err))
		return nil, upstream.FromERP(err, "Could not create the administrator user")
	}
	log.Info("Company provisioned", zap.Int64("user_id", result.UserID))

	result.WelcomeEmailSent = s.sendWelcome(ctx, &req, result, log)
	return ToCreateCompanyResponse(result), nil
}

// resolveCountry returns 0 when the ERP does not know the country
func (s *Service) resolveCountry(ctx context.Context, session erp.Session, code string, log *zap.Logger) (int64, error) {
	id, found, err := session.FindCountryID(ctx, code)
	if err != nil {
		log.Error("Failed to resolve country", zap.String("country", code), zap.Error(err))
		return 0, err
	}
	if !found {
		log.Warn("Country not found in ERP, leaving it unset", zap.String("country", code))
		return 0, nil
	}
	return id, nil
}

func (s *Service) sendWelcome(ctx context.Context, req *provisioning.Request, result *provisioning.Result, log *zap.Logger) bool {
	if s.mailer == nil || s.renderer == nil {
		log.Info("Welcome email skipped, mail is not configured")
		return false
	}

	msg, err := s.renderer.Render(notification.TemplateWelcome, notification.WelcomeData{
		AdminName:   req.AdminName,
		CompanyName: req.CompanyName,
		Login:       result.Login,
		Password:    result.GeneratedPassword,
		LoginURL:    s.loginURL,
	})
	if err == nil {
		msg.To = []notification.Address{{Name: req.AdminName, Email: req.AdminEmail}}
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		level := zap.WarnLevel
		if errors.Is(err, notification.ErrProviderAuth) {
			level = zap.ErrorLevel
		}
		log.Log(level, "Welcome email not sent", zap.Error(err))
		return false
	}
	return true
}

// Ping reports the ERP server version, or an error when it cannot be reached
func (s *Service) Ping(ctx context.Context) (string, error) {
	if s.gateway == nil {
		return "", shared.UpstreamUnavailable("ERP integration is not configured", erp.ErrNotConfigured)
	}
	version, err := s.gateway.Ping(ctx)
	if err != nil {
		return "", upstream.FromERP(err, "ERP is unreachable")
	}
	return version, nil
}
