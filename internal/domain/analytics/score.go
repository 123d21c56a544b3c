package analytics

import (
	"math"

	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/fitterhq/fitter-backend/pkg/config"
)

// Calculator turns an activity window into a HealthScore. It is a pure
// aggregation: identical inputs produce identical output and nothing is
// mutated or stored.
type Calculator struct {
	cfg config.ScoringConfig
}

// NewCalculator builds a calculator with the given scoring parameters.
func NewCalculator(cfg config.ScoringConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// ComputeHealthScore scores the window against the profile targets. Empty
// windows and inverted ranges score zero on every component; malformed
// records are clamped to zero and never abort the computation.
func (c *Calculator) ComputeHealthScore(window activity.Window, profile activity.Profile) HealthScore {
	score := HealthScore{
		Nutrition: c.nutritionScore(window, profile),
		Activity:  c.activityScore(window, profile),
		Hydration: c.hydrationScore(window, profile),
		Fasting:   c.fastingScore(window, profile),
	}
	score.Overall = clampScore(
		c.cfg.NutritionWeight*score.Nutrition +
			c.cfg.ActivityWeight*score.Activity +
			c.cfg.HydrationWeight*score.Hydration +
			c.cfg.FastingWeight*score.Fasting)
	return score
}

type dayNutrition struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
}

// nutritionScore is the share of logged days inside the calorie tolerance
// band, weighted by how close the macro split tracks the targets.
func (c *Calculator) nutritionScore(window activity.Window, profile activity.Profile) float64 {
	if len(window.Food) == 0 || profile.DailyCalorieTarget <= 0 {
		return 0
	}

	days := make(map[string]*dayNutrition)
	for _, e := range window.Food {
		key := activity.DayKey(e.Timestamp)
		d, ok := days[key]
		if !ok {
			d = &dayNutrition{}
			days[key] = d
		}
		d.calories += clampNonNegative(e.Calories)
		d.protein += clampNonNegative(e.Protein)
		d.carbs += clampNonNegative(e.Carbs)
		d.fat += clampNonNegative(e.Fat)
	}

	tolerance := c.cfg.CalorieTolerance * profile.DailyCalorieTarget
	inBand := 0
	balanceSum := 0.0
	for _, d := range days {
		if math.Abs(d.calories-profile.DailyCalorieTarget) <= tolerance {
			inBand++
		}
		balanceSum += macroBalance(d, profile)
	}

	bandRatio := float64(inBand) / float64(len(days))
	avgBalance := balanceSum / float64(len(days))
	return clampScore(100 * bandRatio * avgBalance)
}

// macroBalance is 1 when the day's protein/carb/fat totals hit the targets
// exactly and decays toward 0 with the mean relative deviation.
func macroBalance(d *dayNutrition, profile activity.Profile) float64 {
	targets := []struct{ actual, target float64 }{
		{d.protein, profile.ProteinTargetGrams},
		{d.carbs, profile.CarbsTargetGrams},
		{d.fat, profile.FatTargetGrams},
	}

	var devSum float64
	var counted int
	for _, t := range targets {
		if t.target <= 0 {
			continue
		}
		dev := math.Abs(t.actual-t.target) / t.target
		if dev > 1 {
			dev = 1
		}
		devSum += dev
		counted++
	}
	if counted == 0 {
		// No macro targets configured, score on calories alone
		return 1
	}
	return 1 - devSum/float64(counted)
}

// activityScore blends total exercise minutes against the weekly reference
// with a session-frequency factor, both normalized to the window length.
func (c *Calculator) activityScore(window activity.Window, profile activity.Profile) float64 {
	if len(window.Exercise) == 0 {
		return 0
	}

	weeklyTarget := profile.WeeklyExerciseMinutes
	if weeklyTarget <= 0 {
		weeklyTarget = 150
	}

	var totalMinutes float64
	for _, e := range window.Exercise {
		totalMinutes += clampNonNegative(e.Minutes)
	}

	days := float64(window.Days())
	weeklyMinutes := totalMinutes * 7 / days
	minutesFactor := math.Min(1, weeklyMinutes/weeklyTarget)

	weeklySessions := float64(len(window.Exercise)) * 7 / days
	sessionFactor := math.Min(1, weeklySessions/5)

	return clampScore(100 * (0.7*minutesFactor + 0.3*sessionFactor))
}

// hydrationScore averages the per-day goal ratio over the days spanned by
// the window.
func (c *Calculator) hydrationScore(window activity.Window, profile activity.Profile) float64 {
	if len(window.Water) == 0 || profile.DailyWaterGoalML <= 0 {
		return 0
	}

	perDay := make(map[string]float64)
	for _, e := range window.Water {
		perDay[activity.DayKey(e.Timestamp)] += clampNonNegative(e.Milliliters)
	}

	days := window.Days()
	if len(perDay) > days {
		days = len(perDay)
	}

	var ratioSum float64
	for _, ml := range perDay {
		ratioSum += math.Min(1, ml/profile.DailyWaterGoalML)
	}
	return clampScore(100 * ratioSum / float64(days))
}

// fastingScore is the completed-to-attempted ratio with a bonus share for
// sessions reaching the ketosis threshold.
func (c *Calculator) fastingScore(window activity.Window, profile activity.Profile) float64 {
	if len(window.Fasting) == 0 {
		return 0
	}

	ketosisThreshold := c.cfg.KetosisThresholdHr
	if ketosisThreshold <= 0 {
		ketosisThreshold = 18
	}

	attempted := float64(len(window.Fasting))
	var completed, ketosis float64
	for _, s := range window.Fasting {
		if s.Completed() {
			completed++
		}
		if s.DurationHours() >= ketosisThreshold {
			ketosis++
		}
	}

	base := 100 * completed / attempted
	bonus := 10 * ketosis / attempted
	return clampScore(base + bonus)
}
