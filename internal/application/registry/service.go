// Package registry looks up Romanian companies by fiscal code.
package registry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/registry"
	"github.com/erp/website/internal/domain/shared"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// CompanyResponse is the public registry data returned to the website
type CompanyResponse struct {
	CUI                string     `json:"cui"`
	VATCode            string     `json:"vat_code"`
	Name               string     `json:"name"`
	Address            string     `json:"address"`
	County             string     `json:"county"`
	City               string     `json:"city,omitempty"`
	PostalCode         string     `json:"postal_code"`
	RegistrationNumber string     `json:"registration_number"`
	Phone              string     `json:"phone"`
	VATPayer           bool       `json:"vat_payer"`
	VATOnCollection    bool       `json:"vat_on_collection"`
	Deregistered       bool       `json:"deregistered"`
	LastUpdated        *time.Time `json:"last_updated,omitempty"`
}

// ToCompanyResponse converts a registry company
func ToCompanyResponse(c *registry.Company) *CompanyResponse {
	return &CompanyResponse{
		CUI:                c.CUI.String(),
		VATCode:            c.VATCode(),
		Name:               c.Name,
		Address:            c.Address,
		County:             c.County,
		City:               c.City,
		PostalCode:         c.PostalCode,
		RegistrationNumber: c.RegistrationNumber,
		Phone:              c.Phone,
		VATPayer:           c.VATPayer,
		VATOnCollection:    c.VATOnCollection,
		Deregistered:       c.Deregistered,
		LastUpdated:        c.LastUpdated,
	}
}

// Service resolves fiscal codes against the company registry
type Service struct {
	lookup registry.Lookup
	logger *zap.Logger
}

// NewService creates a new registry Service. lookup may be nil when no API key is configured.
func NewService(lookup registry.Lookup, logger *zap.Logger) *Service {
	return &Service{lookup: lookup, logger: logger.With(zap.String("service", "registry"))}
}

// Lookup validates raw as a CUI and returns the registered company
func (s *Service) Lookup(ctx context.Context, raw string) (*CompanyResponse, error) {
	cui, err := registry.ParseCUI(raw)
	if err != nil {
		return nil, shared.InvalidInput("CUI is not a valid Romanian fiscal code")
	}
	if s.lookup == nil {
		return nil, shared.UpstreamUnavailable("Company lookup is not configured", registry.ErrNotConfigured)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "registry", "lookup", telemetry.SpanAttrCUI, cui.String())
	defer span.End()

	company, err := s.lookup.Lookup(ctx, cui)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, translate(err)
	}
	return ToCompanyResponse(company), nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, registry.ErrCompanyNotFound):
		return shared.NewDomainErrorWithCause(shared.ErrNotFound.Code, "No company is registered with this CUI", err)
	case errors.Is(err, registry.ErrUnauthorized):
		return shared.UpstreamAuth("Company registry rejected the service credentials", err)
	case errors.Is(err, registry.ErrRateLimited):
		return shared.RateLimited("Company registry rate limit reached, please retry later", err)
	case errors.Is(err, registry.ErrNotConfigured):
		return shared.UpstreamUnavailable("Company lookup is not configured", err)
	default:
		return shared.Upstream("Company registry lookup failed", err)
	}
}
