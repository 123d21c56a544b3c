package handlers

import (
	"errors"
	"net/http"

	"github.com/fitterhq/fitter-backend/internal/api/dto"
	"github.com/fitterhq/fitter-backend/internal/api/middleware"
	"github.com/fitterhq/fitter-backend/internal/domain/gamification"
	"github.com/gin-gonic/gin"
)

// GamificationHandler handles HTTP requests for progression state.
type GamificationHandler struct {
	service gamification.Service
}

// NewGamificationHandler creates a new GamificationHandler instance
func NewGamificationHandler(service gamification.Service) *GamificationHandler {
	return &GamificationHandler{service: service}
}

// GetSummary returns the full progression snapshot
func (h *GamificationHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progression"})
		return
	}

	c.JSON(http.StatusOK, dto.GamificationSummaryResponse{
		TotalXP:           summary.TotalXP,
		Points:            summary.Points,
		Level:             summary.Level,
		NextLevelProgress: summary.NextLevelProgress,
		Streaks:           summary.Streaks,
		Badges:            dto.FromBadges(summary.Badges),
		Challenges:        dto.FromChallenges(summary.Challenges),
		Rewards:           summary.Rewards,
	})
}

// GetBadges lists badges, optionally filtered by category or unlock state
func (h *GamificationHandler) GetBadges(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	filter := gamification.BadgeFilter{
		Category:     c.Query("category"),
		UnlockedOnly: c.Query("unlocked") == "true",
	}
	badges, err := h.service.GetBadges(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": dto.FromBadges(badges)})
}

// GetChallenges lists the challenge set
func (h *GamificationHandler) GetChallenges(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	challenges, err := h.service.GetChallenges(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": dto.FromChallenges(challenges)})
}

// GetRewards lists rewards, optionally filtered
func (h *GamificationHandler) GetRewards(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	filter := gamification.RewardFilter{
		Type:          c.Query("type"),
		PurchasedOnly: c.Query("purchased") == "true",
		AvailableOnly: c.Query("available") == "true",
	}
	rewards, err := h.service.GetRewards(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// PurchaseReward attempts a reward purchase
func (h *GamificationHandler) PurchaseReward(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	rewardID := c.Param("id")
	purchased, err := h.service.PurchaseReward(c.Request.Context(), userID, rewardID)
	if err != nil {
		if errors.Is(err, gamification.ErrUnknownReward) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase reward"})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load progression"})
		return
	}

	status := http.StatusOK
	if !purchased {
		status = http.StatusConflict
	}
	c.JSON(status, dto.PurchaseRewardResponse{
		Purchased: purchased,
		RewardID:  rewardID,
		Points:    summary.Points,
	})
}

// AwardXP grants XP for an external reason (admin or system triggered)
func (h *GamificationHandler) AwardXP(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req dto.AwardXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	if err := h.service.AwardXP(c.Request.Context(), userID, req.Amount, req.Reason); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to award XP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"awarded": req.Amount})
}
