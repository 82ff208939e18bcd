package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/models"
	"startup_journey/internal/responses"
	"startup_journey/internal/services"
)

type JourneyHandler struct {
	journeyService *services.JourneyService
}

func NewJourneyHandler(journeyService *services.JourneyService) *JourneyHandler {
	return &JourneyHandler{journeyService: journeyService}
}

// ListPhases handles GET /api/v1/phases
func (h *JourneyHandler) ListPhases(c *gin.Context) {
	phases, err := h.journeyService.ListPhases(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to list phases")
		return
	}
	responses.Success(c, http.StatusOK, phases, "")
}

// ListDomains handles GET /api/v1/domains
func (h *JourneyHandler) ListDomains(c *gin.Context) {
	domains, err := h.journeyService.ListDomains(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to list domains")
		return
	}
	responses.Success(c, http.StatusOK, domains, "")
}

// ListSteps handles GET /api/v1/steps?phase_id=&domain_id=&difficulty=
func (h *JourneyHandler) ListSteps(c *gin.Context) {
	phaseID, ok := queryUUID(c, "phase_id")
	if !ok {
		return
	}
	domainID, ok := queryUUID(c, "domain_id")
	if !ok {
		return
	}
	filter := models.StepFilter{
		PhaseID:    phaseID,
		DomainID:   domainID,
		Difficulty: c.Query("difficulty"),
	}

	steps, err := h.journeyService.ListSteps(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, "Failed to list steps")
		return
	}
	responses.Success(c, http.StatusOK, steps, "")
}

// GetStep handles GET /api/v1/steps/:id
func (h *JourneyHandler) GetStep(c *gin.Context) {
	stepID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	step, err := h.journeyService.GetStep(c.Request.Context(), stepID)
	if err != nil {
		fail(c, err, "Failed to get step")
		return
	}
	responses.Success(c, http.StatusOK, step, "")
}

// Framework handles GET /api/v1/framework
func (h *JourneyHandler) Framework(c *gin.Context) {
	framework, err := h.journeyService.Framework(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to load framework")
		return
	}
	responses.Success(c, http.StatusOK, framework, "")
}

// CreateStep handles POST /api/v1/steps (admin)
func (h *JourneyHandler) CreateStep(c *gin.Context) {
	var req services.StepRequest
	if !bindJSON(c, &req) {
		return
	}
	step, err := h.journeyService.CreateStep(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Failed to create step")
		return
	}
	responses.Success(c, http.StatusCreated, step, "Step created successfully")
}

// UpdateStep handles PUT /api/v1/steps/:id (admin)
func (h *JourneyHandler) UpdateStep(c *gin.Context) {
	stepID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.StepRequest
	if !bindJSON(c, &req) {
		return
	}
	step, err := h.journeyService.UpdateStep(c.Request.Context(), stepID, req)
	if err != nil {
		fail(c, err, "Failed to update step")
		return
	}
	responses.Success(c, http.StatusOK, step, "Step updated successfully")
}
