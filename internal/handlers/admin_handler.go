package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/responses"
	"startup_journey/internal/services"
)

type AdminHandler struct {
	diagnosticsService *services.DiagnosticsService
}

func NewAdminHandler(diagnosticsService *services.DiagnosticsService) *AdminHandler {
	return &AdminHandler{diagnosticsService: diagnosticsService}
}

type diagnosticsResponse struct {
	Database *services.DatabaseReport `json:"database"`
	LLM      *services.LLMReport      `json:"llm,omitempty"`
}

// Diagnostics handles GET /api/v1/admin/diagnostics?llm=true
// The LLM probe calls the upstream model, so it only runs when asked for.
func (h *AdminHandler) Diagnostics(c *gin.Context) {
	ctx := c.Request.Context()
	report, err := h.diagnosticsService.DatabaseReport(ctx)
	if err != nil {
		fail(c, err, "Failed to run diagnostics")
		return
	}
	resp := diagnosticsResponse{Database: report}
	if probe, _ := strconv.ParseBool(c.Query("llm")); probe {
		resp.LLM = h.diagnosticsService.LLMReport(ctx)
	}
	responses.Success(c, http.StatusOK, resp, "")
}

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "components": components})
}
