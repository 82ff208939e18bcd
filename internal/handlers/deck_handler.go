package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"startup_journey/internal/responses"
	"startup_journey/internal/services"
)

// DeckHandler serves the experimental pitch-deck builder.
type DeckHandler struct {
	deckService *services.DeckService
}

func NewDeckHandler(deckService *services.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

// CreateDeck handles POST /api/v1/decks
func (h *DeckHandler) CreateDeck(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req services.CreateDeckRequest
	if !bindJSON(c, &req) {
		return
	}
	deck, err := h.deckService.CreateDeck(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err, "Failed to create deck")
		return
	}
	responses.Success(c, http.StatusCreated, deck, "Deck created")
}

// ListDecks handles GET /api/v1/decks
func (h *DeckHandler) ListDecks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	decks, err := h.deckService.ListDecks(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to list decks")
		return
	}
	responses.Success(c, http.StatusOK, decks, "")
}

// GetDeck handles GET /api/v1/decks/:id
func (h *DeckHandler) GetDeck(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	deckID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	deck, err := h.deckService.GetDeck(c.Request.Context(), userID, deckID)
	if err != nil {
		fail(c, err, "Failed to get deck")
		return
	}
	responses.Success(c, http.StatusOK, deck, "")
}

// AddSlide handles POST /api/v1/decks/:id/slides
func (h *DeckHandler) AddSlide(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	deckID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.AddSlideRequest
	if !bindJSON(c, &req) {
		return
	}
	slide, err := h.deckService.AddSlide(c.Request.Context(), userID, deckID, req)
	if err != nil {
		fail(c, err, "Failed to add slide")
		return
	}
	responses.Success(c, http.StatusCreated, slide, "Slide added")
}

// MoveSlide handles POST /api/v1/decks/:id/slides/:slide_id/move
func (h *DeckHandler) MoveSlide(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	deckID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	slideID, ok := pathUUID(c, "slide_id")
	if !ok {
		return
	}
	var req services.MoveSlideRequest
	if !bindJSON(c, &req) {
		return
	}
	slides, err := h.deckService.MoveSlide(c.Request.Context(), userID, deckID, slideID, req)
	if err != nil {
		fail(c, err, "Failed to move slide")
		return
	}
	responses.Success(c, http.StatusOK, slides, "Slide moved")
}

// ResizeSlide handles PATCH /api/v1/decks/:id/slides/:slide_id/size
func (h *DeckHandler) ResizeSlide(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	deckID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	slideID, ok := pathUUID(c, "slide_id")
	if !ok {
		return
	}
	var req services.ResizeSlideRequest
	if !bindJSON(c, &req) {
		return
	}
	slide, err := h.deckService.ResizeSlide(c.Request.Context(), userID, deckID, slideID, req)
	if err != nil {
		fail(c, err, "Failed to resize slide")
		return
	}
	responses.Success(c, http.StatusOK, slide, "Slide resized")
}

// DeleteSlide handles DELETE /api/v1/decks/:id/slides/:slide_id
func (h *DeckHandler) DeleteSlide(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	deckID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	slideID, ok := pathUUID(c, "slide_id")
	if !ok {
		return
	}
	if err := h.deckService.DeleteSlide(c.Request.Context(), userID, deckID, slideID); err != nil {
		fail(c, err, "Failed to delete slide")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Slide deleted")
}
