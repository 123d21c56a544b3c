package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitterhq/fitter-backend/internal/api/handlers"
	"github.com/fitterhq/fitter-backend/internal/api/middleware"
	"github.com/fitterhq/fitter-backend/internal/api/routes"
	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/fitterhq/fitter-backend/internal/domain/analytics"
	"github.com/fitterhq/fitter-backend/internal/domain/events"
	"github.com/fitterhq/fitter-backend/internal/domain/gamification"
	"github.com/fitterhq/fitter-backend/internal/infrastructure/cache"
	"github.com/fitterhq/fitter-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/fitterhq/fitter-backend/internal/infrastructure/persistence/postgres/migrations"
	"github.com/fitterhq/fitter-backend/pkg/config"
	"github.com/fitterhq/fitter-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Accept-Encoding",
			"Content-Type",
			"X-User-ID",
			"X-Forwarded-For",
			"X-Real-IP",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.Use(gzip.Gzip(gzip.DefaultCompression))

	metricsMiddleware := middleware.NewMetricsMiddleware()
	router.Use(metricsMiddleware.CollectMetrics())

	// Add Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis. The API stays up without it, score caching and
	// event publishing are just disabled.
	var scoreCache analytics.ScoreCache
	var publisher events.Publisher = events.NopPublisher{}
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig, log)
	if err != nil {
		log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		scoreCache = redisClient
		publisher = redisClient
	}

	// Initialize repositories
	activityStore := activity.NewStore(db)
	progressionRepo := gamification.NewRepository(db)

	// Initialize services
	analyticsService := analytics.NewService(activityStore, cfg.Scoring, scoreCache, log)
	gamificationService := gamification.NewService(cfg.Gamification, progressionRepo, publisher, log)

	// Initialize handlers
	activityHandler := handlers.NewActivityHandler(activityStore, gamificationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, gamificationService)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService)

	// Register routes
	routes.SetupHealthRoutes(router, db)
	routes.SetupActivityRoutes(router, activityHandler)
	routes.SetupAnalyticsRoutes(router, analyticsHandler)
	routes.SetupGamificationRoutes(router, gamificationHandler)
	log.Info("Registered routes at /api/v1")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
