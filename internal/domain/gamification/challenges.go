package gamification

import (
	"time"
)

// weekStart returns the Monday of the week containing t, at UTC midnight.
func weekStart(t time.Time) time.Time {
	day := t.UTC().Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DefaultChallenges is the weekly challenge set for the week containing
// now. IDs carry the week's start date so rotation can tell whether the
// current week's instances have already been issued.
func DefaultChallenges(now time.Time) []Challenge {
	start := weekStart(now)
	expiry := start.AddDate(0, 0, 7)
	week := start.Format("20060102")

	return []Challenge{
		{
			ID:        "steps_70k_" + week,
			Name:      "70k Steps",
			Type:      ChallengeSteps,
			Target:    70000,
			XPReward:  150,
			StartsAt:  start,
			ExpiresAt: expiry,
			IsActive:  true,
		},
		{
			ID:        "active_150_" + week,
			Name:      "Active 150",
			Type:      ChallengeExercise,
			Target:    150,
			XPReward:  100,
			StartsAt:  start,
			ExpiresAt: expiry,
			IsActive:  true,
		},
		{
			ID:        "fasting_trio_" + week,
			Name:      "Fasting Trio",
			Type:      ChallengeFasting,
			Target:    3,
			XPReward:  120,
			StartsAt:  start,
			ExpiresAt: expiry,
			IsActive:  true,
		},
		{
			ID:        "deep_hydration_" + week,
			Name:      "Deep Hydration",
			Type:      ChallengeHydration,
			Target:    15000,
			XPReward:  80,
			StartsAt:  start,
			ExpiresAt: expiry,
			IsActive:  true,
		},
		{
			ID:        "track_every_bite_" + week,
			Name:      "Track Every Bite",
			Type:      ChallengeCalories,
			Target:    21,
			XPReward:  90,
			StartsAt:  start,
			ExpiresAt: expiry,
			IsActive:  true,
		},
		{
			ID:        "show_up_daily_" + week,
			Name:      "Show Up Daily",
			Type:      ChallengeConsistency,
			Target:    7,
			XPReward:  200,
			StartsAt:  start,
			ExpiresAt: expiry,
			IsActive:  true,
		},
	}
}

// contribution returns how much an event advances a challenge. The
// consistency type counts at most one contribution per calendar day, which
// the caller enforces via Challenge.LastDay.
func contribution(t ChallengeType, ev ActivityEvent) float64 {
	switch t {
	case ChallengeSteps:
		if ev.Kind == ActivityExercise && ev.Steps > 0 {
			return float64(ev.Steps)
		}
	case ChallengeExercise:
		if ev.Kind == ActivityExercise && ev.Minutes > 0 {
			return ev.Minutes
		}
	case ChallengeFasting:
		if ev.Kind == ActivityFasting && ev.FastCompleted {
			return 1
		}
	case ChallengeHydration:
		if ev.Kind == ActivityWater && ev.Milliliters > 0 {
			return ev.Milliliters
		}
	case ChallengeCalories:
		if ev.Kind == ActivityFood {
			return 1
		}
	case ChallengeConsistency:
		return 1
	}
	return 0
}
