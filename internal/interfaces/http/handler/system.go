package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/interfaces/http/dto"
)

// healthCheckTimeout bounds the upstream probes of the health endpoint
const healthCheckTimeout = 5 * time.Second

// Health states
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthDisabled = "disabled"
	HealthDown     = "down"
)

// ERPPinger reports the version of the ERP server
type ERPPinger interface {
	Ping(ctx context.Context) (string, error)
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	erp       ERPPinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. erp may be nil.
func NewSystemHandler(name, version string, erp ERPPinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		erp:       erp,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"erp-website"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /api/system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /api/system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckResult is the outcome of one dependency probe
type CheckResult struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"17.0"`
	Latency string `json:"latency,omitempty" example:"42ms"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse represents the health check response
// @name HandlerHealthResponse
type HealthResponse struct {
	Status  string                 `json:"status" example:"ok"`
	Version string                 `json:"version" example:"1.0.0"`
	Uptime  string                 `json:"uptime" example:"1h30m45s"`
	Checks  map[string]CheckResult `json:"checks"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports the service status and probes the ERP when it is configured.
// @Description  An unreachable ERP answers 503 so load balancers can react.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  HealthOK,
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Checks:  map[string]CheckResult{"erp": h.checkERP(c.Request.Context())},
	}

	status := http.StatusOK
	if resp.Checks["erp"].Status == HealthDown {
		resp.Status = HealthDegraded
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.NewSuccessResponse(resp))
}

func (h *SystemHandler) checkERP(ctx context.Context) CheckResult {
	if h.erp == nil {
		return CheckResult{Status: HealthDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	version, err := h.erp.Ping(ctx)
	latency := time.Since(start).Round(time.Millisecond).String()
	switch {
	case errors.Is(err, erp.ErrNotConfigured):
		return CheckResult{Status: HealthDisabled}
	case err != nil:
		return CheckResult{Status: HealthDown, Latency: latency, Error: err.Error()}
	default:
		return CheckResult{Status: HealthOK, Version: version, Latency: latency}
	}
}
