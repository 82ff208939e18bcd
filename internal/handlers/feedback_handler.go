package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/responses"
	"startup_journey/internal/services"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req services.SubmitFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	fb, err := h.feedbackService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err, "Failed to submit feedback")
		return
	}
	responses.Success(c, http.StatusCreated, fb, "Feedback submitted")
}

// List handles GET /api/v1/feedback?entity_type=&entity_id=&limit=
func (h *FeedbackHandler) List(c *gin.Context) {
	entityID, ok := queryUUID(c, "entity_id")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	list, err := h.feedbackService.ListForEntity(c.Request.Context(), c.Query("entity_type"), entityID, limit)
	if err != nil {
		fail(c, err, "Failed to list feedback")
		return
	}
	responses.Success(c, http.StatusOK, list, "")
}

// CreateSuggestion handles POST /api/v1/suggestions
func (h *FeedbackHandler) CreateSuggestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req services.CreateSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}
	sg, err := h.feedbackService.CreateSuggestion(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err, "Failed to create suggestion")
		return
	}
	responses.Success(c, http.StatusCreated, sg, "Suggestion created")
}

// ListSuggestions handles GET /api/v1/suggestions?status=
func (h *FeedbackHandler) ListSuggestions(c *gin.Context) {
	suggestions, err := h.feedbackService.ListSuggestions(c.Request.Context(), c.Query("status"))
	if err != nil {
		fail(c, err, "Failed to list suggestions")
		return
	}
	responses.Success(c, http.StatusOK, suggestions, "")
}

// GetSuggestion handles GET /api/v1/suggestions/:id
func (h *FeedbackHandler) GetSuggestion(c *gin.Context) {
	suggestionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sg, err := h.feedbackService.GetSuggestion(c.Request.Context(), suggestionID)
	if err != nil {
		fail(c, err, "Failed to get suggestion")
		return
	}
	responses.Success(c, http.StatusOK, sg, "")
}

// Upvote handles POST /api/v1/suggestions/:id/upvote
func (h *FeedbackHandler) Upvote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	suggestionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.feedbackService.Upvote(c.Request.Context(), userID, suggestionID)
	if err != nil {
		fail(c, err, "Failed to upvote suggestion")
		return
	}
	responses.Success(c, http.StatusOK, result, "")
}

// UpdateSuggestionStatus handles PATCH /api/v1/suggestions/:id (admin)
func (h *FeedbackHandler) UpdateSuggestionStatus(c *gin.Context) {
	suggestionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateSuggestionStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	sg, err := h.feedbackService.UpdateSuggestionStatus(c.Request.Context(), suggestionID, req)
	if err != nil {
		fail(c, err, "Failed to update suggestion")
		return
	}
	responses.Success(c, http.StatusOK, sg, "Suggestion updated")
}
