package dto

import (
	"time"
)

// LogFoodRequest represents the request to log a meal
type LogFoodRequest struct {
	Name      string     `json:"name"`
	Calories  float64    `json:"calories" binding:"required"`
	Protein   float64    `json:"protein"`
	Carbs     float64    `json:"carbs"`
	Fat       float64    `json:"fat"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// LogExerciseRequest represents the request to log a workout
type LogExerciseRequest struct {
	Kind           string     `json:"kind"`
	Minutes        float64    `json:"minutes" binding:"required"`
	CaloriesBurned float64    `json:"calories_burned"`
	Steps          int        `json:"steps"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// LogWaterRequest represents the request to log water intake
type LogWaterRequest struct {
	Milliliters float64    `json:"milliliters" binding:"required"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// LogFastingRequest represents the request to log a fasting session
type LogFastingRequest struct {
	StartedAt   time.Time  `json:"started_at" binding:"required"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	TargetHours float64    `json:"target_hours"`
}

// LogActivityResponse confirms a logged activity
type LogActivityResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}
