package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/responses"
	"startup_journey/internal/services"
)

type PersonaHandler struct {
	personaService *services.PersonaService
}

func NewPersonaHandler(personaService *services.PersonaService) *PersonaHandler {
	return &PersonaHandler{personaService: personaService}
}

// ListPersonas handles GET /api/v1/personas
func (h *PersonaHandler) ListPersonas(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	personas, err := h.personaService.ListPersonas(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to list personas")
		return
	}
	responses.Success(c, http.StatusOK, personas, "")
}

// CreatePersona handles POST /api/v1/personas
func (h *PersonaHandler) CreatePersona(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req services.CreatePersonaRequest
	if !bindJSON(c, &req) {
		return
	}
	persona, err := h.personaService.CreatePersona(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err, "Failed to create persona")
		return
	}
	responses.Success(c, http.StatusCreated, persona, "Persona created")
}

// ActivePersona handles GET /api/v1/personas/active
func (h *PersonaHandler) ActivePersona(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	persona, err := h.personaService.ActivePersona(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to get active persona")
		return
	}
	responses.Success(c, http.StatusOK, persona, "")
}

// ActivatePersona handles POST /api/v1/personas/:id/activate
func (h *PersonaHandler) ActivatePersona(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	personaID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	persona, err := h.personaService.ActivatePersona(c.Request.Context(), userID, personaID)
	if err != nil {
		fail(c, err, "Failed to activate persona")
		return
	}
	responses.Success(c, http.StatusOK, persona, "Persona activated")
}

// DeletePersona handles DELETE /api/v1/personas/:id
func (h *PersonaHandler) DeletePersona(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	personaID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.personaService.DeletePersona(c.Request.Context(), userID, personaID); err != nil {
		fail(c, err, "Failed to delete persona")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Persona deleted")
}

// ListSections handles GET /api/v1/personas/:id/sections
func (h *PersonaHandler) ListSections(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	personaID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sections, err := h.personaService.ListSections(c.Request.Context(), userID, personaID)
	if err != nil {
		fail(c, err, "Failed to list sections")
		return
	}
	responses.Success(c, http.StatusOK, sections, "")
}

// UpsertSection handles PUT /api/v1/personas/:id/sections/:key
func (h *PersonaHandler) UpsertSection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	personaID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.UpsertSectionRequest
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.personaService.UpsertSection(c.Request.Context(), userID, personaID, c.Param("key"), req)
	if err != nil {
		fail(c, err, "Failed to save section")
		return
	}
	responses.Success(c, http.StatusOK, section, "Section saved")
}

// ReorderSections handles PUT /api/v1/personas/:id/sections/order
func (h *PersonaHandler) ReorderSections(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	personaID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.ReorderSectionsRequest
	if !bindJSON(c, &req) {
		return
	}
	sections, err := h.personaService.ReorderSections(c.Request.Context(), userID, personaID, req)
	if err != nil {
		fail(c, err, "Failed to reorder sections")
		return
	}
	responses.Success(c, http.StatusOK, sections, "Sections reordered")
}

// DeleteSection handles DELETE /api/v1/personas/:id/sections/:key
func (h *PersonaHandler) DeleteSection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	personaID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.personaService.DeleteSection(c.Request.Context(), userID, personaID, c.Param("key")); err != nil {
		fail(c, err, "Failed to delete section")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Section deleted")
}
