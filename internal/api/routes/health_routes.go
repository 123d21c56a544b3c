package routes

import (
	"net/http"
	"time"

	"github.com/fitterhq/fitter-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SetupHealthRoutes registers health check endpoints
func SetupHealthRoutes(router *gin.Engine, db *connection.Database) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		status := "ready"
		code := http.StatusOK
		if db != nil {
			if sqlDB, err := db.DB.DB(); err != nil || sqlDB.Ping() != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
		})
	})
}
