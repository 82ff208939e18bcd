package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
	"startup_journey/internal/middlewares"
)

type AdminRoutes struct {
	handler *handlers.AdminHandler
	auth    gin.HandlerFunc
}

func NewAdminRoutes(handler *handlers.AdminHandler, auth gin.HandlerFunc) *AdminRoutes {
	return &AdminRoutes{handler: handler, auth: auth}
}

func (r *AdminRoutes) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(r.auth, middlewares.RequireAdmin)
	{
		admin.GET("/diagnostics", r.handler.Diagnostics)
	}
}
