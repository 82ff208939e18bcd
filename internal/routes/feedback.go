package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
	"startup_journey/internal/middlewares"
)

type FeedbackRoutes struct {
	handler *handlers.FeedbackHandler
	auth    gin.HandlerFunc
}

func NewFeedbackRoutes(handler *handlers.FeedbackHandler, auth gin.HandlerFunc) *FeedbackRoutes {
	return &FeedbackRoutes{handler: handler, auth: auth}
}

func (r *FeedbackRoutes) RegisterRoutes(router *gin.RouterGroup) {
	feedback := router.Group("/feedback")
	feedback.Use(r.auth)
	{
		feedback.POST("", r.handler.Submit)
		feedback.GET("", r.handler.List)
	}

	suggestions := router.Group("/suggestions")
	suggestions.Use(r.auth)
	{
		suggestions.POST("", r.handler.CreateSuggestion)
		suggestions.GET("", r.handler.ListSuggestions)
		suggestions.GET("/:id", r.handler.GetSuggestion)
		suggestions.POST("/:id/upvote", r.handler.Upvote)

		// Admin-only routes
		suggestions.PATCH("/:id", middlewares.RequireAdmin, r.handler.UpdateSuggestionStatus)
	}
}
