package handlers

import (
	"net/http"
	"time"

	"github.com/fitterhq/fitter-backend/internal/api/dto"
	"github.com/fitterhq/fitter-backend/internal/api/middleware"
	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/fitterhq/fitter-backend/internal/domain/gamification"
	"github.com/gin-gonic/gin"
)

// ActivityHandler handles HTTP requests for activity logging. Every log
// call writes the entry and feeds the progression engine.
type ActivityHandler struct {
	store        activity.Store
	gamification gamification.Service
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(store activity.Store, gamification gamification.Service) *ActivityHandler {
	return &ActivityHandler{store: store, gamification: gamification}
}

// LogFood records a meal and advances progression
func (h *ActivityHandler) LogFood(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req dto.LogFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	entry := &activity.FoodEntry{
		UserID:    userID,
		Name:      req.Name,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fat:       req.Fat,
		Timestamp: ts,
	}
	if err := h.store.LogFood(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log food entry"})
		return
	}

	if err := h.gamification.RecordActivity(c.Request.Context(), userID, gamification.ActivityEvent{
		Kind:      gamification.ActivityFood,
		Timestamp: ts,
		Calories:  req.Calories,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progression"})
		return
	}

	middleware.CountActivityLogged("food")
	c.JSON(http.StatusCreated, dto.LogActivityResponse{ID: entry.ID.String(), Kind: "food", Timestamp: ts})
}

// LogExercise records a workout and advances progression
func (h *ActivityHandler) LogExercise(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req dto.LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	entry := &activity.ExerciseEntry{
		UserID:         userID,
		Kind:           req.Kind,
		Minutes:        req.Minutes,
		CaloriesBurned: req.CaloriesBurned,
		Steps:          req.Steps,
		Timestamp:      ts,
	}
	if err := h.store.LogExercise(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log exercise entry"})
		return
	}

	if err := h.gamification.RecordActivity(c.Request.Context(), userID, gamification.ActivityEvent{
		Kind:      gamification.ActivityExercise,
		Timestamp: ts,
		Minutes:   req.Minutes,
		Steps:     req.Steps,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progression"})
		return
	}

	middleware.CountActivityLogged("exercise")
	c.JSON(http.StatusCreated, dto.LogActivityResponse{ID: entry.ID.String(), Kind: "exercise", Timestamp: ts})
}

// LogWater records water intake and advances progression
func (h *ActivityHandler) LogWater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req dto.LogWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	entry := &activity.WaterEntry{
		UserID:      userID,
		Milliliters: req.Milliliters,
		Timestamp:   ts,
	}
	if err := h.store.LogWater(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log water entry"})
		return
	}

	if err := h.gamification.RecordActivity(c.Request.Context(), userID, gamification.ActivityEvent{
		Kind:        gamification.ActivityWater,
		Timestamp:   ts,
		Milliliters: req.Milliliters,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progression"})
		return
	}

	middleware.CountActivityLogged("water")
	c.JSON(http.StatusCreated, dto.LogActivityResponse{ID: entry.ID.String(), Kind: "water", Timestamp: ts})
}

// LogFasting records a fasting session and advances progression
func (h *ActivityHandler) LogFasting(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})
		return
	}

	var req dto.LogFastingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetHours := req.TargetHours
	if targetHours <= 0 {
		targetHours = 16
	}

	session := &activity.FastingSession{
		UserID:      userID,
		StartedAt:   req.StartedAt.UTC(),
		EndedAt:     req.EndedAt,
		TargetHours: targetHours,
	}
	if err := h.store.LogFasting(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log fasting session"})
		return
	}

	if err := h.gamification.RecordActivity(c.Request.Context(), userID, gamification.ActivityEvent{
		Kind:          gamification.ActivityFasting,
		Timestamp:     session.StartedAt,
		FastHours:     session.DurationHours(),
		FastCompleted: session.Completed(),
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progression"})
		return
	}

	middleware.CountActivityLogged("fasting")
	c.JSON(http.StatusCreated, dto.LogActivityResponse{ID: session.ID.String(), Kind: "fasting", Timestamp: session.StartedAt})
}
