package handlers

import (
	"net/http"
	"time"

	"github.com/fitterhq/fitter-backend/internal/api/dto"
	"github.com/fitterhq/fitter-backend/internal/api/middleware"
	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/fitterhq/fitter-backend/internal/domain/analytics"
	"github.com/fitterhq/fitter-backend/internal/domain/gamification"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles HTTP requests for scores, trends and insights.
type AnalyticsHandler struct {
	analytics    analytics.Service
	gamification gamification.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance
func NewAnalyticsHandler(analyticsSvc analytics.Service, gamificationSvc gamification.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsSvc, gamification: gamificationSvc}
}

// GetHealthScore computes the score for the requested window, defaulting
// to the last 7 days.
func (h *AnalyticsHandler) GetHealthScore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			to = t
		}
	}

	score, err := h.analytics.GetHealthScore(c.Request.Context(), userID, activity.DefaultProfile(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute health score"})
		return
	}

	middleware.CountScoreComputation()
	c.JSON(http.StatusOK, dto.HealthScoreResponse{
		Overall:   score.Overall,
		Nutrition: score.Nutrition,
		Activity:  score.Activity,
		Hydration: score.Hydration,
		Fasting:   score.Fasting,
		From:      from.Format(time.RFC3339),
		To:        to.Format(time.RFC3339),
	})
}

// GetTrends returns the per-metric trend series
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	trends, err := h.analytics.GetTrends(c.Request.Context(), userID, activity.DefaultProfile(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trends"})
		return
	}

	c.JSON(http.StatusOK, dto.FromTrendData(trends))
}

// GetInsights runs the insight rule set over the latest snapshot
func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	streaks, err := h.gamification.GetStreaks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load streaks"})
		return
	}

	statuses := make([]analytics.StreakStatus, 0, len(streaks))
	for _, s := range streaks {
		statuses = append(statuses, analytics.StreakStatus{
			Category: string(s.Type),
			Current:  s.Current,
			Best:     s.Best,
			Active:   s.IsActive,
		})
	}

	insights, err := h.analytics.GetInsights(c.Request.Context(), userID, activity.DefaultProfile(), statuses, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate insights"})
		return
	}

	c.JSON(http.StatusOK, dto.FromInsights(insights))
}
