// Package upstream translates adapter errors of the external services into
// domain errors the HTTP layer knows how to render.
package upstream

import (
	"errors"

	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/domain/shared"
)

// FromERP translates an ERP gateway error. msg describes the failed step.
func FromERP(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, erp.ErrNotConfigured):
		return shared.UpstreamUnavailable("ERP integration is not configured", err)
	case errors.Is(err, erp.ErrAuthenticationFailed):
		return shared.UpstreamAuth("ERP rejected the service credentials", err)
	default:
		return shared.Upstream(msg, err)
	}
}

// FromMail translates a Mailer or Renderer error
func FromMail(err error, msg string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, notification.ErrNotConfigured):
		return shared.UpstreamUnavailable("Email delivery is not configured", err)
	case errors.Is(err, notification.ErrProviderAuth):
		return shared.UpstreamAuth("Email provider rejected the service credentials", err)
	case errors.Is(err, notification.ErrInvalidAddress), errors.Is(err, notification.ErrNoRecipients):
		return shared.NewDomainErrorWithCause(shared.ErrInvalidInput.Code, "Email address is invalid", err)
	default:
		return shared.Upstream(msg, err)
	}
}
