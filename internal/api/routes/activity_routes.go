package routes

import (
	"github.com/fitterhq/fitter-backend/internal/api/handlers"
	"github.com/fitterhq/fitter-backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupActivityRoutes registers the activity logging endpoints
func SetupActivityRoutes(router *gin.Engine, handler *handlers.ActivityHandler) {
	group := router.Group("/api/v1/activity")
	group.Use(middleware.UserMiddleware())
	{
		group.POST("/food", handler.LogFood)
		group.POST("/exercise", handler.LogExercise)
		group.POST("/water", handler.LogWater)
		group.POST("/fasting", handler.LogFasting)
	}
}
