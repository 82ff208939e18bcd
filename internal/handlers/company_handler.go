package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/responses"
	"startup_journey/internal/services"
	"startup_journey/internal/utils"
)

// CompanyHandler serves companies together with their progress, budget and
// personalized recommendations.
type CompanyHandler struct {
	progressService *services.ProgressService
	budgetService   *services.BudgetService
	toolService     *services.ToolService
}

func NewCompanyHandler(progressService *services.ProgressService, budgetService *services.BudgetService, toolService *services.ToolService) *CompanyHandler {
	return &CompanyHandler{
		progressService: progressService,
		budgetService:   budgetService,
		toolService:     toolService,
	}
}

// CreateCompany handles POST /api/v1/companies
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req services.CreateCompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.progressService.CreateCompany(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err, "Failed to create company")
		return
	}
	responses.Success(c, http.StatusCreated, company, "Company created successfully")
}

// ListCompanies handles GET /api/v1/companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companies, err := h.progressService.ListCompanies(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to list companies")
		return
	}
	responses.Success(c, http.StatusOK, companies, "")
}

// GetCompany handles GET /api/v1/companies/:id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	company, err := h.progressService.GetCompany(c.Request.Context(), userID, companyID)
	if err != nil {
		fail(c, err, "Failed to get company")
		return
	}
	responses.Success(c, http.StatusOK, company, "")
}

// ListProgress handles GET /api/v1/companies/:id/progress
func (h *CompanyHandler) ListProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	progress, err := h.progressService.ListProgress(c.Request.Context(), userID, companyID)
	if err != nil {
		fail(c, err, "Failed to list progress")
		return
	}
	responses.Success(c, http.StatusOK, progress, "")
}

// UpdateProgress handles PUT /api/v1/companies/:id/progress/:step_id
func (h *CompanyHandler) UpdateProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stepID, ok := pathUUID(c, "step_id")
	if !ok {
		return
	}
	var req services.UpdateProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	progress, err := h.progressService.UpdateStepStatus(c.Request.Context(), userID, companyID, stepID, req)
	if err != nil {
		fail(c, err, "Failed to update progress")
		return
	}
	responses.Success(c, http.StatusOK, progress, "Progress updated")
}

// Summary handles GET /api/v1/companies/:id/summary
func (h *CompanyHandler) Summary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	summary, err := h.progressService.Summary(c.Request.Context(), userID, companyID)
	if err != nil {
		fail(c, err, "Failed to summarize progress")
		return
	}
	responses.Success(c, http.StatusOK, summary, "")
}

// Recommendations handles GET /api/v1/companies/:id/recommendations?step_id=&limit=
func (h *CompanyHandler) Recommendations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stepID, err := utils.ParseUUID(c.Query("step_id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "step_id query parameter is required")
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	tools, err := h.toolService.PersonalizedRecommendations(c.Request.Context(), userID, companyID, stepID, limit)
	if err != nil {
		fail(c, err, "Failed to build recommendations")
		return
	}
	responses.Success(c, http.StatusOK, tools, "")
}

// SetBudget handles PUT /api/v1/companies/:id/budget
func (h *CompanyHandler) SetBudget(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.SetBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.budgetService.SetBudget(c.Request.Context(), userID, companyID, req)
	if err != nil {
		fail(c, err, "Failed to set budget")
		return
	}
	responses.Success(c, http.StatusOK, budget, "Budget saved")
}

// GetBudget handles GET /api/v1/companies/:id/budget
func (h *CompanyHandler) GetBudget(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	summary, err := h.budgetService.Summary(c.Request.Context(), userID, companyID)
	if err != nil {
		fail(c, err, "Failed to load budget")
		return
	}
	responses.Success(c, http.StatusOK, summary, "")
}

// SelectTool handles POST /api/v1/companies/:id/tools
func (h *CompanyHandler) SelectTool(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.SelectToolRequest
	if !bindJSON(c, &req) {
		return
	}
	selection, err := h.budgetService.SelectTool(c.Request.Context(), userID, companyID, req)
	if err != nil {
		fail(c, err, "Failed to select tool")
		return
	}
	responses.Success(c, http.StatusCreated, selection, "Tool selected")
}

// DeselectTool handles DELETE /api/v1/companies/:id/tools/:tool_id
func (h *CompanyHandler) DeselectTool(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	toolID, ok := pathUUID(c, "tool_id")
	if !ok {
		return
	}
	if err := h.budgetService.DeselectTool(c.Request.Context(), userID, companyID, toolID); err != nil {
		fail(c, err, "Failed to deselect tool")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Tool deselected")
}
