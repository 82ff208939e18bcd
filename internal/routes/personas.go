package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
)

type PersonaRoutes struct {
	handler *handlers.PersonaHandler
	auth    gin.HandlerFunc
}

func NewPersonaRoutes(handler *handlers.PersonaHandler, auth gin.HandlerFunc) *PersonaRoutes {
	return &PersonaRoutes{handler: handler, auth: auth}
}

func (r *PersonaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	personas := router.Group("/personas")
	personas.Use(r.auth)
	{
		personas.GET("", r.handler.ListPersonas)
		personas.POST("", r.handler.CreatePersona)
		personas.GET("/active", r.handler.ActivePersona)
		personas.POST("/:id/activate", r.handler.ActivatePersona)
		personas.DELETE("/:id", r.handler.DeletePersona)

		// Profile sections; "order" is reserved for the reorder route
		personas.GET("/:id/sections", r.handler.ListSections)
		personas.PUT("/:id/sections/order", r.handler.ReorderSections)
		personas.PUT("/:id/sections/:key", r.handler.UpsertSection)
		personas.DELETE("/:id/sections/:key", r.handler.DeleteSection)
	}
}
