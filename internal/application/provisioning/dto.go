package provisioning

import "github.com/erp/website/internal/domain/provisioning"

// CreateCompanyResponse is returned once the company and its administrator exist
type CreateCompanyResponse struct {
	PartnerID int64  `json:"partner_id"`
	CompanyID int64  `json:"company_id"`
	UserID    int64  `json:"user_id"`
	Login     string `json:"login"`
	// GeneratedPassword is only returned when no password was supplied
	GeneratedPassword string `json:"generated_password,omitempty"`
	WelcomeEmailSent  bool   `json:"welcome_email_sent"`
}

// ToCreateCompanyResponse converts a provisioning result
func ToCreateCompanyResponse(r *provisioning.Result) *CreateCompanyResponse {
	return &CreateCompanyResponse{
		PartnerID:         r.PartnerID,
		CompanyID:         r.CompanyID,
		UserID:            r.UserID,
		Login:             r.Login,
		GeneratedPassword: r.GeneratedPassword,
		WelcomeEmailSent:  r.WelcomeEmailSent,
	}
}
