package activity

import (
	"time"

	"github.com/google/uuid"
)

// FoodEntry is a single logged meal or snack.
type FoodEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_food_user_time,priority:1" json:"user_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Calories  float64   `gorm:"not null;default:0" json:"calories"`
	Protein   float64   `gorm:"not null;default:0" json:"protein"`
	Carbs     float64   `gorm:"not null;default:0" json:"carbs"`
	Fat       float64   `gorm:"not null;default:0" json:"fat"`
	Timestamp time.Time `gorm:"not null;index:idx_food_user_time,priority:2" json:"timestamp"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp" json:"created_at"`
}

func (FoodEntry) TableName() string {
	return "food_entries"
}

// ExerciseEntry is a single logged workout session.
type ExerciseEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_exercise_user_time,priority:1" json:"user_id"`
	Kind           string    `gorm:"size:100" json:"kind"`
	Minutes        float64   `gorm:"not null;default:0" json:"minutes"`
	CaloriesBurned float64   `gorm:"not null;default:0" json:"calories_burned"`
	Steps          int       `gorm:"not null;default:0" json:"steps"`
	Timestamp      time.Time `gorm:"not null;index:idx_exercise_user_time,priority:2" json:"timestamp"`
	CreatedAt      time.Time `gorm:"not null;default:current_timestamp" json:"created_at"`
}

func (ExerciseEntry) TableName() string {
	return "exercise_entries"
}

// WaterEntry is a single logged water intake.
type WaterEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_water_user_time,priority:1" json:"user_id"`
	Milliliters float64   `gorm:"not null;default:0" json:"milliliters"`
	Timestamp   time.Time `gorm:"not null;index:idx_water_user_time,priority:2" json:"timestamp"`
	CreatedAt   time.Time `gorm:"not null;default:current_timestamp" json:"created_at"`
}

func (WaterEntry) TableName() string {
	return "water_entries"
}

// FastingSession records one attempted fast. EndedAt is nil while the fast
// is still running.
type FastingSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_fasting_user_time,priority:1" json:"user_id"`
	StartedAt   time.Time  `gorm:"not null;index:idx_fasting_user_time,priority:2" json:"started_at"`
	EndedAt     *time.Time `gorm:"default:null" json:"ended_at,omitempty"`
	TargetHours float64    `gorm:"not null;default:16" json:"target_hours"`
	CreatedAt   time.Time  `gorm:"not null;default:current_timestamp" json:"created_at"`
}

func (FastingSession) TableName() string {
	return "fasting_sessions"
}

// DurationHours returns the elapsed fasting time in hours, zero for
// malformed sessions where the end precedes the start.
func (f FastingSession) DurationHours() float64 {
	if f.EndedAt == nil {
		return 0
	}
	h := f.EndedAt.Sub(f.StartedAt).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// Completed reports whether the session ended and reached its target.
func (f FastingSession) Completed() bool {
	return f.EndedAt != nil && f.DurationHours() >= f.TargetHours
}

// Profile holds the user's daily targets, read-only inputs to scoring.
type Profile struct {
	DailyCalorieTarget    float64 `json:"daily_calorie_target"`
	ProteinTargetGrams    float64 `json:"protein_target_grams"`
	CarbsTargetGrams      float64 `json:"carbs_target_grams"`
	FatTargetGrams        float64 `json:"fat_target_grams"`
	DailyWaterGoalML      float64 `json:"daily_water_goal_ml"`
	FastingTargetHours    float64 `json:"fasting_target_hours"`
	WeeklyExerciseMinutes float64 `json:"weekly_exercise_minutes"`
}

// DefaultProfile returns targets matching the app's onboarding defaults.
func DefaultProfile() Profile {
	return Profile{
		DailyCalorieTarget:    2000,
		ProteinTargetGrams:    150,
		CarbsTargetGrams:      200,
		FatTargetGrams:        65,
		DailyWaterGoalML:      2500,
		FastingTargetHours:    16,
		WeeklyExerciseMinutes: 150,
	}
}
