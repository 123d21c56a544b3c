package routes

import (
	"github.com/fitterhq/fitter-backend/internal/api/handlers"
	"github.com/fitterhq/fitter-backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAnalyticsRoutes registers the score, trend and insight endpoints
func SetupAnalyticsRoutes(router *gin.Engine, handler *handlers.AnalyticsHandler) {
	group := router.Group("/api/v1/analytics")
	group.Use(middleware.UserMiddleware())
	{
		group.GET("/score", handler.GetHealthScore)
		group.GET("/trends", handler.GetTrends)
		group.GET("/insights", handler.GetInsights)
	}
}
