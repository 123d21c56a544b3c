package dto

import (
	"github.com/fitterhq/fitter-backend/internal/domain/gamification"
)

// GamificationSummaryResponse is the full progression snapshot
type GamificationSummaryResponse struct {
	TotalXP           int64                  `json:"total_xp"`
	Points            int64                  `json:"points"`
	Level             gamification.UserLevel `json:"level"`
	NextLevelProgress float64                `json:"next_level_progress"`
	Streaks           []gamification.Streak  `json:"streaks"`
	Badges            []BadgeResponse        `json:"badges"`
	Challenges        []ChallengeResponse    `json:"challenges"`
	Rewards           []gamification.Reward  `json:"rewards"`
}

// BadgeResponse represents one badge with its display progress
type BadgeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Rarity      string  `json:"rarity"`
	IconName    string  `json:"icon_name"`
	IsUnlocked  bool    `json:"is_unlocked"`
	Progress    float64 `json:"progress"`
	Requirement string  `json:"requirement"`
}

// ChallengeResponse represents one challenge with clamped display progress
type ChallengeResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	Target             float64 `json:"target"`
	Progress           float64 `json:"progress"`
	ProgressPercentage float64 `json:"progress_percentage"`
	XPReward           int64   `json:"xp_reward"`
	IsActive           bool    `json:"is_active"`
	IsCompleted        bool    `json:"is_completed"`
}

// PurchaseRewardResponse reports a purchase attempt
type PurchaseRewardResponse struct {
	Purchased bool   `json:"purchased"`
	RewardID  string `json:"reward_id"`
	Points    int64  `json:"points"`
}

// AwardXPRequest represents a manual XP grant
type AwardXPRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// FromBadges maps domain badges into the response shape
func FromBadges(badges []gamification.Badge) []BadgeResponse {
	out := make([]BadgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, BadgeResponse{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Category:    b.Category,
			Rarity:      string(b.Rarity),
			IconName:    b.IconName,
			IsUnlocked:  b.IsUnlocked,
			Progress:    b.Progress,
			Requirement: b.Requirement,
		})
	}
	return out
}

// FromChallenges maps domain challenges into the response shape
func FromChallenges(challenges []gamification.Challenge) []ChallengeResponse {
	out := make([]ChallengeResponse, 0, len(challenges))
	for _, c := range challenges {
		out = append(out, ChallengeResponse{
			ID:                 c.ID,
			Name:               c.Name,
			Type:               string(c.Type),
			Target:             c.Target,
			Progress:           c.Progress,
			ProgressPercentage: c.ProgressPercentage(),
			XPReward:           c.XPReward,
			IsActive:           c.IsActive,
			IsCompleted:        c.IsCompleted,
		})
	}
	return out
}
