package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/models"
	"startup_journey/internal/responses"
	"startup_journey/internal/services"
)

type ToolHandler struct {
	toolService      *services.ToolService
	assistantService *services.AssistantService
}

func NewToolHandler(toolService *services.ToolService, assistantService *services.AssistantService) *ToolHandler {
	return &ToolHandler{
		toolService:      toolService,
		assistantService: assistantService,
	}
}

// ListTools handles GET /api/v1/tools?category=&pricing_model=&tag=&q=
func (h *ToolHandler) ListTools(c *gin.Context) {
	filter := models.ToolFilter{
		Category:     c.Query("category"),
		PricingModel: c.Query("pricing_model"),
		Tag:          c.Query("tag"),
		Search:       c.Query("q"),
	}
	tools, err := h.toolService.ListTools(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, "Failed to list tools")
		return
	}
	responses.Success(c, http.StatusOK, tools, "")
}

// GetTool handles GET /api/v1/tools/:id
func (h *ToolHandler) GetTool(c *gin.Context) {
	toolID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tool, err := h.toolService.GetTool(c.Request.Context(), toolID)
	if err != nil {
		fail(c, err, "Failed to get tool")
		return
	}
	responses.Success(c, http.StatusOK, tool, "")
}

// CreateTool handles POST /api/v1/tools (admin)
func (h *ToolHandler) CreateTool(c *gin.Context) {
	var req services.CreateToolRequest
	if !bindJSON(c, &req) {
		return
	}
	tool, err := h.toolService.CreateTool(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Failed to create tool")
		return
	}
	responses.Success(c, http.StatusCreated, tool, "Tool created successfully")
}

// StepTools handles GET /api/v1/steps/:id/tools
func (h *ToolHandler) StepTools(c *gin.Context) {
	stepID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tools, err := h.toolService.StepRecommendations(c.Request.Context(), stepID)
	if err != nil {
		fail(c, err, "Failed to list step tools")
		return
	}
	responses.Success(c, http.StatusOK, tools, "")
}

// Recommend handles PUT /api/v1/steps/:id/tools/:tool_id (admin)
func (h *ToolHandler) Recommend(c *gin.Context) {
	stepID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	toolID, ok := pathUUID(c, "tool_id")
	if !ok {
		return
	}
	var req services.RecommendRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.toolService.Recommend(c.Request.Context(), stepID, toolID, req)
	if err != nil {
		fail(c, err, "Failed to save recommendation")
		return
	}
	responses.Success(c, http.StatusOK, rec, "Recommendation saved")
}

// SuggestTools handles POST /api/v1/steps/:id/ai-suggestions
func (h *ToolHandler) SuggestTools(c *gin.Context) {
	stepID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.SuggestToolsRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	suggestions, err := h.assistantService.SuggestTools(c.Request.Context(), stepID, req)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			// Anything unclassified here came from the upstream model.
			_ = c.Error(err)
			slog.WarnContext(c.Request.Context(), "ai suggestion failed", "step_id", stepID, "error", err)
			responses.Fail(c, http.StatusBadGateway, nil, "AI assistant request failed")
			return
		}
		fail(c, err, "Failed to suggest tools")
		return
	}
	responses.Success(c, http.StatusOK, suggestions, "")
}

// ListPathways handles GET /api/v1/pathways
func (h *ToolHandler) ListPathways(c *gin.Context) {
	pathways, err := h.toolService.ListPathways(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to list pathways")
		return
	}
	responses.Success(c, http.StatusOK, pathways, "")
}
