package handler

import (
	"github.com/gin-gonic/gin"

	registryapp "github.com/erp/website/internal/application/registry"
)

// RegistryHandler looks up companies in the Romanian trade registry
type RegistryHandler struct {
	BaseHandler
	registryService *registryapp.Service
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(registryService *registryapp.Service) *RegistryHandler {
	return &RegistryHandler{
		registryService: registryService,
	}
}

// LookupQuery holds the query parameters of a registry lookup
type LookupQuery struct {
	CUI string `form:"cui" binding:"required,max=16" example:"RO18547290"`
}

// Lookup godoc
// @ID           lookupCompany
// @Summary      Look up a company by CUI
// @Description  Returns the registry record of a Romanian company. The CUI may carry the RO prefix.
// @Tags         registry
// @Produce      json
// @Param        cui query string true "Romanian fiscal code"
// @Success      200 {object} APIResponse[registryapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /api/anaf-lookup [get]
func (h *RegistryHandler) Lookup(c *gin.Context) {
	var query LookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	company, err := h.registryService.Lookup(c.Request.Context(), query.CUI)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}
