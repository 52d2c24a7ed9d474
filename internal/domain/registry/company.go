package registry

import (
	"context"
	"errors"
	"time"
)

// Lookup errors
var (
	ErrCompanyNotFound = errors.New("registry: company not found")
	ErrUnauthorized    = errors.New("registry: API key rejected")
	ErrRateLimited     = errors.New("registry: rate limited")
	ErrUnavailable     = errors.New("registry: service unavailable")
	ErrNotConfigured   = errors.New("registry: not configured")
)

// Company is the public registry data of a Romanian company
type Company struct {
	CUI                CUI
	Name               string
	Address            string
	County             string
	City               string
	PostalCode         string
	RegistrationNumber string // trade register number, e.g. J12/1234/2005
	Phone              string
	VATPayer           bool
	VATOnCollection    bool
	Deregistered       bool
	LastUpdated        *time.Time
}

// VATCode returns the code to put in an ERP VAT field
func (c *Company) VATCode() string {
	if c.VATPayer {
		return c.CUI.VATCode()
	}
	return c.CUI.String()
}

// Lookup fetches company data by fiscal code
type Lookup interface {
	Lookup(ctx context.Context, cui CUI) (*Company, error)
}
