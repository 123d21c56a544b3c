package routes

import (
	"github.com/fitterhq/fitter-backend/internal/api/handlers"
	"github.com/fitterhq/fitter-backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupGamificationRoutes registers the progression endpoints
func SetupGamificationRoutes(router *gin.Engine, handler *handlers.GamificationHandler) {
	group := router.Group("/api/v1/gamification")
	group.Use(middleware.UserMiddleware())
	{
		group.GET("/summary", handler.GetSummary)
		group.GET("/badges", handler.GetBadges)
		group.GET("/challenges", handler.GetChallenges)
		group.GET("/rewards", handler.GetRewards)
		group.POST("/rewards/:id/purchase", handler.PurchaseReward)
		group.POST("/xp", handler.AwardXP)
	}
}
