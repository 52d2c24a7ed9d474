package router

import (
	"github.com/gin-gonic/gin"

	"github.com/erp/website/internal/interfaces/http/handler"
	"github.com/erp/website/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers of the site API
type Handlers struct {
	Company     *handler.CompanyHandler
	Contact     *handler.ContactHandler
	Registry    *handler.RegistryHandler
	Translation *handler.TranslationHandler
	Onboarding  *handler.OnboardingHandler
	System      *handler.SystemHandler
}

// Routes returns the route groups of the site. formLimiter, when not nil,
// additionally throttles the endpoints that send email or write to the ERP.
func Routes(h Handlers, formLimiter *middleware.RateLimiter) []RouteRegistrar {
	form := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if formLimiter == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{middleware.RateLimit(formLimiter), next}
	}

	health := NewDomainGroup("health", "/health")
	health.GET("", h.System.Health)

	api := NewDomainGroup("api", "/api")
	api.POST("/contact", form(h.Contact.Submit)...)
	api.GET("/anaf-lookup", h.Registry.Lookup)

	api.Group("odoo", "/odoo").
		POST("/create-company", form(h.Company.Create)...)

	api.Group("translation", "/translation").
		POST("/score", h.Translation.Score).
		POST("/analyze", h.Translation.Analyze)

	api.Group("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	onboard := NewDomainGroup("onboarding", "/onboard")
	onboard.POST("", form(h.Onboarding.Submit)...)

	return []RouteRegistrar{health, api, onboard}
}
