package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
)

type DeckRoutes struct {
	handler *handlers.DeckHandler
	auth    gin.HandlerFunc
}

func NewDeckRoutes(handler *handlers.DeckHandler, auth gin.HandlerFunc) *DeckRoutes {
	return &DeckRoutes{handler: handler, auth: auth}
}

func (r *DeckRoutes) RegisterRoutes(router *gin.RouterGroup) {
	decks := router.Group("/decks")
	decks.Use(r.auth)
	{
		decks.POST("", r.handler.CreateDeck)
		decks.GET("", r.handler.ListDecks)
		decks.GET("/:id", r.handler.GetDeck)

		slides := decks.Group("/:id/slides")
		slides.POST("", r.handler.AddSlide)
		slides.POST("/:slide_id/move", r.handler.MoveSlide)
		slides.PATCH("/:slide_id/size", r.handler.ResizeSlide)
		slides.DELETE("/:slide_id", r.handler.DeleteSlide)
	}
}
