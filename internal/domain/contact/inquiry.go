// Package contact holds the website contact form rules.
package contact

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/erp/website/internal/domain/shared"
)

// MaxMessageLength caps the free text of an inquiry
const MaxMessageLength = 5000

// Inquiry is a message sent through the contact form
type Inquiry struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Subject string
	Service string
	Message string

	// Honeypot is a field hidden from humans. Bots fill it in.
	Honeypot string
}

// Normalize trims every field
func (i *Inquiry) Normalize() {
	for _, f := range []*string{&i.Name, &i.Email, &i.Phone, &i.Company, &i.Subject, &i.Service, &i.Message, &i.Honeypot} {
		*f = strings.TrimSpace(*f)
	}
	i.Email = strings.ToLower(i.Email)
}

// Validate checks the inquiry after Normalize
func (i *Inquiry) Validate() error {
	if i.Name == "" {
		return shared.InvalidInput("name is required")
	}
	if _, err := mail.ParseAddress(i.Email); err != nil || strings.ContainsAny(i.Email, "<> ") {
		return shared.InvalidInput("email is invalid")
	}
	if i.Message == "" {
		return shared.InvalidInput("message is required")
	}
	if utf8.RuneCountInString(i.Message) > MaxMessageLength {
		return shared.InvalidInput("message is too long")
	}
	// Subjects end up in mail headers
	if strings.ContainsAny(i.Subject, "\r\n") {
		return shared.InvalidInput("subject must be a single line")
	}
	return nil
}

// IsSpam reports whether the honeypot was filled in
func (i *Inquiry) IsSpam() bool {
	return i.Honeypot != ""
}

// SubjectLine returns the subject of the sales notification
func (i *Inquiry) SubjectLine() string {
	switch {
	case i.Subject != "":
		return "Contact: " + i.Subject
	case i.Company != "":
		return "Contact: " + i.Name + " (" + i.Company + ")"
	default:
		return "Contact: " + i.Name
	}
}
