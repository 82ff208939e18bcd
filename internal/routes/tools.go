package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
	"startup_journey/internal/middlewares"
)

type ToolRoutes struct {
	handler *handlers.ToolHandler
	auth    gin.HandlerFunc
}

func NewToolRoutes(handler *handlers.ToolHandler, auth gin.HandlerFunc) *ToolRoutes {
	return &ToolRoutes{handler: handler, auth: auth}
}

func (r *ToolRoutes) RegisterRoutes(router *gin.RouterGroup) {
	tools := router.Group("/tools")
	tools.Use(r.auth)
	{
		tools.GET("", r.handler.ListTools)
		tools.GET("/:id", r.handler.GetTool)
		tools.POST("", middlewares.RequireAdmin, r.handler.CreateTool)
	}

	steps := router.Group("/steps/:id")
	steps.Use(r.auth)
	{
		steps.GET("/tools", r.handler.StepTools)
		steps.POST("/ai-suggestions", r.handler.SuggestTools)
		steps.PUT("/tools/:tool_id", middlewares.RequireAdmin, r.handler.Recommend)
	}

	router.GET("/pathways", r.auth, r.handler.ListPathways)
}
