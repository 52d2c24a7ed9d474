package handler

import (
	"github.com/gin-gonic/gin"

	provisioningapp "github.com/erp/website/internal/application/provisioning"
	"github.com/erp/website/internal/domain/provisioning"
)

// CompanyHandler provisions customer companies in the ERP
type CompanyHandler struct {
	BaseHandler
	provisioningService *provisioningapp.Service
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(provisioningService *provisioningapp.Service) *CompanyHandler {
	return &CompanyHandler{
		provisioningService: provisioningService,
	}
}

// CreateCompanyRequest represents a request to provision a company and its administrator
// @Description Request body of the company sign-up form
type CreateCompanyRequest struct {
	CompanyName        string `json:"company_name" binding:"required,max=200" example:"Acme Software SRL"`
	CUI                string `json:"cui" binding:"omitempty,cui" example:"RO18547290"`
	RegistrationNumber string `json:"registration_number" binding:"max=50" example:"J12/1234/2020"`
	Street             string `json:"street" binding:"max=200" example:"Str. Memorandumului 28"`
	City               string `json:"city" binding:"max=100" example:"Cluj-Napoca"`
	Zip                string `json:"zip" binding:"max=20" example:"400114"`
	CountryCode        string `json:"country_code" binding:"omitempty,country_code" example:"RO"`
	CompanyEmail       string `json:"company_email" binding:"omitempty,email,max=200" example:"office@acme.ro"`
	Phone              string `json:"phone" binding:"max=50" example:"+40 721 000 000"`
	Website            string `json:"website" binding:"max=200" example:"https://acme.ro"`

	AdminName     string `json:"admin_name" binding:"required,max=200" example:"Ana Pop"`
	AdminEmail    string `json:"admin_email" binding:"required,email,max=200" example:"ana@acme.ro"`
	AdminPassword string `json:"admin_password" binding:"omitempty,min=8,max=128"`
	Lang          string `json:"lang" binding:"max=10" example:"ro_RO"`
}

func (r *CreateCompanyRequest) toDomain() provisioning.Request {
	return provisioning.Request{
		CompanyName:        r.CompanyName,
		CUI:                r.CUI,
		RegistrationNumber: r.RegistrationNumber,
		Street:             r.Street,
		City:               r.City,
		Zip:                r.Zip,
		CountryCode:        r.CountryCode,
		CompanyEmail:       r.CompanyEmail,
		Phone:              r.Phone,
		Website:            r.Website,
		AdminName:          r.AdminName,
		AdminEmail:         r.AdminEmail,
		AdminPassword:      r.AdminPassword,
		Lang:               r.Lang,
	}
}

// Create godoc
// @ID           createCompany
// @Summary      Provision a company
// @Description  Creates the partner, company and administrator user in Odoo, then sends a welcome email.
// @Description  A generated password is returned once when the request carries none.
// @Tags         odoo
// @Accept       json
// @Produce      json
// @Param        request body CreateCompanyRequest true "Company sign-up"
// @Success      201 {object} APIResponse[provisioningapp.CreateCompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /api/odoo/create-company [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.provisioningService.CreateCompany(c.Request.Context(), req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
