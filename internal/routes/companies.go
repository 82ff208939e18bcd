package routes

import (
	"github.com/gin-gonic/gin"

	"startup_journey/internal/handlers"
)

type CompanyRoutes struct {
	handler *handlers.CompanyHandler
	auth    gin.HandlerFunc
}

func NewCompanyRoutes(handler *handlers.CompanyHandler, auth gin.HandlerFunc) *CompanyRoutes {
	return &CompanyRoutes{handler: handler, auth: auth}
}

func (r *CompanyRoutes) RegisterRoutes(router *gin.RouterGroup) {
	companies := router.Group("/companies")
	companies.Use(r.auth) // Companies are always scoped to the caller
	{
		companies.POST("", r.handler.CreateCompany)
		companies.GET("", r.handler.ListCompanies)
		companies.GET("/:id", r.handler.GetCompany)

		// Progress
		companies.GET("/:id/progress", r.handler.ListProgress)
		companies.PUT("/:id/progress/:step_id", r.handler.UpdateProgress)
		companies.GET("/:id/summary", r.handler.Summary)
		companies.GET("/:id/recommendations", r.handler.Recommendations)

		// Budget
		companies.PUT("/:id/budget", r.handler.SetBudget)
		companies.GET("/:id/budget", r.handler.GetBudget)
		companies.POST("/:id/tools", r.handler.SelectTool)
		companies.DELETE("/:id/tools/:tool_id", r.handler.DeselectTool)
	}
}
