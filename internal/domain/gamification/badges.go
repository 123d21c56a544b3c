package gamification

import (
	"math"
)

// badgeRule recomputes one badge's progress from the cumulative counters.
// Progress is absolute, not incremental, so a drifted value self-corrects
// on the next evaluation.
type badgeRule func(c Counters, streaks map[StreakType]*Streak, level int) float64

type badgeDefinition struct {
	Badge
	rule badgeRule
}

// countProgress is the common shape: 100 * have/need, clamped.
func countProgress(have, need float64) float64 {
	if need <= 0 {
		return 100
	}
	return math.Min(100, 100*have/need)
}

// badgeDefinitions is the canonical badge catalog. IDs must stay stable
// because unlocked IDs are persisted.
func badgeDefinitions() []badgeDefinition {
	return []badgeDefinition{
		{
			Badge: Badge{
				ID: "first_bite", Name: "First Bite", Category: "nutrition",
				Rarity: RarityCommon, IconName: "fork.knife",
				Description: "Log your first meal",
				Requirement: "Log 1 meal",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(c.FoodEntries), 1)
			},
		},
		{
			Badge: Badge{
				ID: "balanced_week", Name: "Balanced Week", Category: "nutrition",
				Rarity: RarityRare, IconName: "calendar.badge.checkmark",
				Description: "Keep a 7-day food logging streak",
				Requirement: "7-day food streak",
			},
			rule: func(_ Counters, streaks map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(bestStreak(streaks, StreakFood)), 7)
			},
		},
		{
			Badge: Badge{
				ID: "sweat_starter", Name: "Sweat Starter", Category: "activity",
				Rarity: RarityCommon, IconName: "figure.run",
				Description: "Complete 10 workouts",
				Requirement: "10 exercise sessions",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(c.ExerciseSessions), 10)
			},
		},
		{
			Badge: Badge{
				ID: "marathon_month", Name: "Marathon Month", Category: "activity",
				Rarity: RarityEpic, IconName: "flame.fill",
				Description: "Accumulate 1000 exercise minutes",
				Requirement: "1000 exercise minutes",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(c.ExerciseMinutes, 1000)
			},
		},
		{
			Badge: Badge{
				ID: "first_fast", Name: "First Fast", Category: "fasting",
				Rarity: RarityCommon, IconName: "moon.fill",
				Description: "Complete your first fast",
				Requirement: "1 completed fast",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(c.FastsCompleted), 1)
			},
		},
		{
			Badge: Badge{
				ID: "iron_will", Name: "Iron Will", Category: "fasting",
				Rarity: RarityEpic, IconName: "bolt.shield.fill",
				Description: "Complete 10 fasts at target duration",
				Requirement: "10 completed fasts",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(c.FastsCompleted), 10)
			},
		},
		{
			Badge: Badge{
				ID: "ketosis_club", Name: "Ketosis Club", Category: "fasting",
				Rarity: RarityRare, IconName: "sparkles",
				Description: "Carry a fast past the 18 hour mark",
				Requirement: "1 fast of 18h or more",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(c.KetosisFasts), 1)
			},
		},
		{
			Badge: Badge{
				ID: "hydration_hero", Name: "Hydration Hero", Category: "hydration",
				Rarity: RarityRare, IconName: "drop.fill",
				Description: "Log water 50 times",
				Requirement: "50 water entries",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(c.WaterEntries), 50)
			},
		},
		{
			Badge: Badge{
				ID: "consistency_master", Name: "Consistency Master", Category: "consistency",
				Rarity: RarityLegendary, IconName: "crown.fill",
				Description: "Reach a 30-day streak in any category",
				Requirement: "30-day streak",
			},
			rule: func(_ Counters, streaks map[StreakType]*Streak, _ int) float64 {
				best := 0
				for _, t := range StreakTypes {
					if b := bestStreak(streaks, t); b > best {
						best = b
					}
				}
				return countProgress(float64(best), 30)
			},
		},
		{
			Badge: Badge{
				ID: "challenger", Name: "Challenger", Category: "challenges",
				Rarity: RarityRare, IconName: "trophy.fill",
				Description: "Complete 5 challenges",
				Requirement: "5 completed challenges",
			},
			rule: func(c Counters, _ map[StreakType]*Streak, _ int) float64 {
				return countProgress(float64(c.ChallengesCompleted), 5)
			},
		},
		{
			Badge: Badge{
				ID: "rising_star", Name: "Rising Star", Category: "progression",
				Rarity: RarityRare, IconName: "star.fill",
				Description: "Reach level 5",
				Requirement: "Level 5",
			},
			rule: func(_ Counters, _ map[StreakType]*Streak, level int) float64 {
				return countProgress(float64(level), 5)
			},
		},
	}
}

func bestStreak(streaks map[StreakType]*Streak, t StreakType) int {
	s, ok := streaks[t]
	if !ok {
		return 0
	}
	return s.Best
}

// catalogBadges returns the fresh (locked) badge set for a new user.
func catalogBadges() []Badge {
	defs := badgeDefinitions()
	badges := make([]Badge, 0, len(defs))
	for _, d := range defs {
		badges = append(badges, d.Badge)
	}
	return badges
}

// badgeRules maps badge ID to its progress rule.
func badgeRules() map[string]badgeRule {
	defs := badgeDefinitions()
	rules := make(map[string]badgeRule, len(defs))
	for _, d := range defs {
		rules[d.ID] = d.rule
	}
	return rules
}
