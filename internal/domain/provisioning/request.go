// Package provisioning contains the rules for creating a customer company,
// with its administrator, in the ERP.
package provisioning

import (
	"net/mail"
	"strings"

	"github.com/erp/website/internal/domain/registry"
	"github.com/erp/website/internal/domain/shared"
)

// MinPasswordLength is the shortest administrator password accepted
const MinPasswordLength = 8

// DefaultCountryCode is used when the request names no country
const DefaultCountryCode = "RO"

// Request describes the company and administrator to provision
type Request struct {
	CompanyName        string
	CUI                string
	RegistrationNumber string
	Street             string
	City               string
	Zip                string
	CountryCode        string
	CompanyEmail       string
	Phone              string
	Website            string

	AdminName     string
	AdminEmail    string
	AdminPassword string
	Lang          string
}

// Normalize trims every field and fills in defaults
func (r *Request) Normalize() {
	for _, f := range []*string{
		&r.CompanyName, &r.CUI, &r.RegistrationNumber, &r.Street, &r.City, &r.Zip,
		&r.CountryCode, &r.CompanyEmail, &r.Phone, &r.Website, &r.AdminName, &r.AdminEmail, &r.Lang,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.AdminEmail = strings.ToLower(r.AdminEmail)
	r.CompanyEmail = strings.ToLower(r.CompanyEmail)
	r.CountryCode = strings.ToUpper(r.CountryCode)
	if r.CountryCode == "" {
		r.CountryCode = DefaultCountryCode
	}
	if r.CompanyEmail == "" {
		r.CompanyEmail = r.AdminEmail
	}
}

// Validate checks the request after Normalize
func (r *Request) Validate() error {
	if r.CompanyName == "" {
		return shared.InvalidInput("company name is required")
	}
	if r.AdminName == "" {
		return shared.InvalidInput("administrator name is required")
	}
	if _, err := mail.ParseAddress(r.AdminEmail); err != nil || strings.ContainsAny(r.AdminEmail, "<> ") {
		return shared.InvalidInput("administrator email is invalid")
	}
	if r.AdminPassword != "" && len(r.AdminPassword) < MinPasswordLength {
		return shared.InvalidInput("administrator password must be at least 8 characters")
	}
	if len(r.CountryCode) != 2 {
		return shared.InvalidInput("country code must have two letters")
	}
	if r.CUI != "" {
		cui, err := registry.ParseCUI(r.CUI)
		if err != nil {
			return shared.InvalidInput("CUI is not a valid Romanian fiscal code")
		}
		r.CUI = cui.String()
	}
	return nil
}

// VATCode returns the VAT field value for the partner, empty without a CUI
func (r *Request) VATCode() string {
	if r.CUI == "" {
		return ""
	}
	if r.CountryCode == DefaultCountryCode {
		return registry.CUI(r.CUI).VATCode()
	}
	return r.CUI
}

// Result carries the IDs created in the ERP
type Result struct {
	PartnerID int64
	CompanyID int64
	UserID    int64
	Login     string
	// GeneratedPassword is set only when the request carried no password
	GeneratedPassword string
	WelcomeEmailSent  bool
}
