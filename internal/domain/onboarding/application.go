// Package onboarding holds the rules of the onboarding form filled in by
// prospective customers.
package onboarding

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/erp/website/internal/domain/registry"
	"github.com/erp/website/internal/domain/shared"
)

const (
	maxNotesLength = 5000
	maxModules     = 30
)

// Application is a submitted onboarding form
type Application struct {
	CompanyName string
	CUI         string
	Industry    string
	Employees   string
	ContactName string
	Email       string
	Phone       string
	Modules     []string
	Notes       string
}

// Normalize trims fields and removes empty and duplicate modules
func (a *Application) Normalize() {
	for _, f := range []*string{&a.CompanyName, &a.CUI, &a.Industry, &a.Employees, &a.ContactName, &a.Email, &a.Phone, &a.Notes} {
		*f = strings.TrimSpace(*f)
	}
	a.Email = strings.ToLower(a.Email)

	modules := make([]string, 0, len(a.Modules))
	for _, m := range a.Modules {
		m = strings.TrimSpace(m)
		if m != "" && !slices.Contains(modules, m) {
			modules = append(modules, m)
		}
	}
	a.Modules = modules
}

// Validate checks the application after Normalize
func (a *Application) Validate() error {
	if a.CompanyName == "" {
		return shared.InvalidInput("company name is required")
	}
	if a.ContactName == "" {
		return shared.InvalidInput("contact name is required")
	}
	if _, err := mail.ParseAddress(a.Email); err != nil || strings.ContainsAny(a.Email, "<> ") {
		return shared.InvalidInput("email is invalid")
	}
	if a.CUI != "" {
		cui, err := registry.ParseCUI(a.CUI)
		if err != nil {
			return shared.InvalidInput("CUI is not a valid Romanian fiscal code")
		}
		a.CUI = cui.String()
	}
	if len(a.Modules) > maxModules {
		return shared.InvalidInput("too many modules selected")
	}
	if utf8.RuneCountInString(a.Notes) > maxNotesLength {
		return shared.InvalidInput("notes are too long")
	}
	return nil
}

// LeadName is the title of the CRM lead created for the application
func (a *Application) LeadName() string {
	return "Onboarding: " + a.CompanyName
}

// Reference is a stable ASCII reference derived from the company name
func (a *Application) Reference() string {
	return shared.Slug(a.CompanyName)
}

// Summary renders the application as plain text for CRM notes
func (a *Application) Summary() string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Company", a.CompanyName)
	line("CUI", a.CUI)
	line("Industry", a.Industry)
	line("Employees", a.Employees)
	line("Contact", a.ContactName)
	line("Email", a.Email)
	line("Phone", a.Phone)
	line("Modules", strings.Join(a.Modules, ", "))
	if a.Notes != "" {
		b.WriteString("\n")
		b.WriteString(a.Notes)
		b.WriteString("\n")
	}
	return b.String()
}
