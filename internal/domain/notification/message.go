// Package notification defines transactional email messages and the Mailer port.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	ErrNoRecipients    = errors.New("notification: message has no recipients")
	ErrEmptyMessage    = errors.New("notification: message has no subject or body")
	ErrInvalidAddress  = errors.New("notification: invalid email address")
	ErrDeliveryFailed  = errors.New("notification: delivery failed")
	ErrProviderAuth    = errors.New("notification: provider rejected credentials")
	ErrNotConfigured   = errors.New("notification: mailer not configured")
	ErrUnknownTemplate = errors.New("notification: unknown template")
)

// Address is a mailbox with an optional display name
type Address struct {
	Name  string
	Email string
}

// String formats the address as "Name <email>"
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Validate checks the mailbox syntax
func (a Address) Validate() error {
	if _, err := mail.ParseAddress(a.Email); err != nil || strings.ContainsAny(a.Email, "<> ") {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, a.Email)
	}
	return nil
}

// Message is one transactional email
type Message struct {
	// From overrides the configured sender when set
	From    Address
	To      []Address
	ReplyTo *Address
	Subject string
	HTML    string
	Text    string

	// Template names the rendered template, for providers that render remotely
	Template string
	// TemplateParams are the values the template was rendered with
	TemplateParams map[string]string
}

// Validate checks that the message can be handed to a provider
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range m.To {
		if err := to.Validate(); err != nil {
			return err
		}
	}
	if m.ReplyTo != nil {
		if err := m.ReplyTo.Validate(); err != nil {
			return err
		}
	}
	if m.Subject == "" || (m.HTML == "" && m.Text == "") {
		return ErrEmptyMessage
	}
	return nil
}

// Mailer delivers transactional email
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
