package handler

import (
	"github.com/gin-gonic/gin"

	contactapp "github.com/erp/website/internal/application/contact"
	"github.com/erp/website/internal/domain/contact"
)

// ContactHandler handles the contact form
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.Service
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.Service) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// ContactRequest represents a contact form submission.
// Website is a hidden field, a filled in value marks the sender as a bot.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=200" example:"Ana Pop"`
	Email   string `json:"email" binding:"required,email,max=200" example:"ana@acme.ro"`
	Phone   string `json:"phone" binding:"max=50" example:"+40 721 000 000"`
	Company string `json:"company" binding:"max=200" example:"Acme Software SRL"`
	Subject string `json:"subject" binding:"max=200" example:"Demo request"`
	Service string `json:"service" binding:"max=100" example:"implementation"`
	Message string `json:"message" binding:"required,max=5000" example:"We would like a demo of the inventory module."`
	Website string `json:"website"`
}

// Submit godoc
// @ID           submitContact
// @Summary      Send the contact form
// @Description  Emails the inquiry to the sales inbox and sends the sender an auto-reply
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request body ContactRequest true "Contact form"
// @Success      200 {object} APIResponse[contactapp.SubmitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.contactService.Submit(c.Request.Context(), contact.Inquiry{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Subject:  req.Subject,
		Service:  req.Service,
		Message:  req.Message,
		Honeypot: req.Website,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
