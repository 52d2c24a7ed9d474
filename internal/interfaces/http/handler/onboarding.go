package handler

import (
	"github.com/gin-gonic/gin"

	onboardingapp "github.com/erp/website/internal/application/onboarding"
	"github.com/erp/website/internal/domain/onboarding"
)

// OnboardingHandler handles the onboarding form
type OnboardingHandler struct {
	BaseHandler
	onboardingService *onboardingapp.Service
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(onboardingService *onboardingapp.Service) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingService: onboardingService,
	}
}

// OnboardingRequest represents an onboarding form submission
type OnboardingRequest struct {
	CompanyName string   `json:"company_name" binding:"required,max=200" example:"Acme Software SRL"`
	CUI         string   `json:"cui" binding:"omitempty,cui" example:"RO18547290"`
	Industry    string   `json:"industry" binding:"max=100" example:"retail"`
	Employees   string   `json:"employees" binding:"max=50" example:"10-49"`
	ContactName string   `json:"contact_name" binding:"required,max=200" example:"Ana Pop"`
	Email       string   `json:"email" binding:"required,email,max=200" example:"ana@acme.ro"`
	Phone       string   `json:"phone" binding:"max=50" example:"+40 721 000 000"`
	Modules     []string `json:"modules" binding:"max=30,dive,max=100" example:"inventory,invoicing"`
	Notes       string   `json:"notes" binding:"max=5000"`
}

// Submit godoc
// @ID           submitOnboarding
// @Summary      Send the onboarding form
// @Description  Records the application as a CRM lead when the ERP is configured, notifies the team
// @Description  and confirms to the applicant
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request body OnboardingRequest true "Onboarding form"
// @Success      200 {object} APIResponse[onboardingapp.SubmitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /onboard [post]
func (h *OnboardingHandler) Submit(c *gin.Context) {
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.onboardingService.Submit(c.Request.Context(), onboarding.Application{
		CompanyName: req.CompanyName,
		CUI:         req.CUI,
		Industry:    req.Industry,
		Employees:   req.Employees,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Modules:     req.Modules,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
