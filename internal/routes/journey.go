package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
	"startup_journey/internal/middlewares"
)

type JourneyRoutes struct {
	handler *handlers.JourneyHandler
	auth    gin.HandlerFunc
}

func NewJourneyRoutes(handler *handlers.JourneyHandler, auth gin.HandlerFunc) *JourneyRoutes {
	return &JourneyRoutes{handler: handler, auth: auth}
}

func (r *JourneyRoutes) RegisterRoutes(router *gin.RouterGroup) {
	journey := router.Group("")
	journey.Use(r.auth)
	{
		journey.GET("/phases", r.handler.ListPhases)
		journey.GET("/domains", r.handler.ListDomains)
		journey.GET("/framework", r.handler.Framework)
		journey.GET("/steps", r.handler.ListSteps)
		journey.GET("/steps/:id", r.handler.GetStep)

		// Admin-only routes
		journey.POST("/steps", middlewares.RequireAdmin, r.handler.CreateStep)
		journey.PUT("/steps/:id", middlewares.RequireAdmin, r.handler.UpdateStep)
	}
}
