package notification

// Template names
const (
	TemplateWelcome                = "welcome"
	TemplateContactNotification    = "contact_notification"
	TemplateContactAutoReply       = "contact_autoreply"
	TemplateOnboardingNotification = "onboarding_notification"
	TemplateOnboardingConfirmation = "onboarding_confirmation"
)

// Renderer builds a message from a named template.
// The returned message has Subject, HTML, Text and Template set; recipients are left to the caller.
type Renderer interface {
	Render(name string, data any) (*Message, error)
}

// WelcomeData is rendered into the welcome email of a provisioned administrator
type WelcomeData struct {
	AdminName   string
	CompanyName string
	Login       string
	// Password is only present when it was generated for the administrator
	Password string
	LoginURL string
}

// ContactData is rendered into the contact notification and auto-reply
type ContactData struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Subject string
	Service string
	Message string
}

// OnboardingData is rendered into the onboarding notification and confirmation
type OnboardingData struct {
	CompanyName string
	CUI         string
	Industry    string
	Employees   string
	ContactName string
	Email       string
	Phone       string
	Modules     []string
	Notes       string
	LeadID      int64
}
