package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
)

// Handlers groups every API handler the router mounts.
type Handlers struct {
	Journey  *handlers.JourneyHandler
	Tools    *handlers.ToolHandler
	Company  *handlers.CompanyHandler
	Feedback *handlers.FeedbackHandler
	Persona  *handlers.PersonaHandler
	Deck     *handlers.DeckHandler
	Admin    *handlers.AdminHandler
	Health   *handlers.HealthHandler
}

func RegisterRoutes(router *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	api := router.Group("/api/v1")

	NewJourneyRoutes(h.Journey, auth).RegisterRoutes(api)
	NewToolRoutes(h.Tools, auth).RegisterRoutes(api)
	NewCompanyRoutes(h.Company, auth).RegisterRoutes(api)
	NewFeedbackRoutes(h.Feedback, auth).RegisterRoutes(api)
	NewPersonaRoutes(h.Persona, auth).RegisterRoutes(api)
	NewDeckRoutes(h.Deck, auth).RegisterRoutes(api)
	NewAdminRoutes(h.Admin, auth).RegisterRoutes(api)

	router.GET("/health", h.Health.Health)
}
