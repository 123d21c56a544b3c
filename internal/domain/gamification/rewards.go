package gamification

// DefaultRewards is the reward store catalog. IDs must stay stable because
// purchases are persisted against them.
func DefaultRewards() []Reward {
	return []Reward{
		{
			ID: "theme_midnight", Name: "Midnight Theme", Type: "theme",
			Description: "A dark app theme for late-night logging",
			Cost:        100, MinLevel: 2,
		},
		{
			ID: "icon_pack_retro", Name: "Retro Icon Pack", Type: "cosmetic",
			Description: "Alternate app icons with a retro look",
			Cost:        250, MinLevel: 3,
		},
		{
			ID: "streak_shield", Name: "Streak Shield", Type: "boost",
			Description: "Protects one streak for a single missed day",
			Cost:        400, MinLevel: 5,
		},
		{
			ID: "chart_pro", Name: "Pro Charts", Type: "feature",
			Description: "Extended analytics chart styles",
			Cost:        600, MinLevel: 8,
		},
		{
			ID: "banner_legend", Name: "Legend Banner", Type: "cosmetic",
			Description: "An animated profile banner",
			Cost:        1000, MinLevel: 10,
		},
	}
}

// BadgeFilter narrows a badge listing.
type BadgeFilter struct {
	Category     string
	UnlockedOnly bool
}

// FilterBadges applies the read-side badge filters.
func FilterBadges(badges []Badge, filter BadgeFilter) []Badge {
	out := make([]Badge, 0, len(badges))
	for _, b := range badges {
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.UnlockedOnly && !b.IsUnlocked {
			continue
		}
		out = append(out, b)
	}
	return out
}

// RewardFilter narrows a reward listing. Affordable filters by the given
// point balance when non-negative.
type RewardFilter struct {
	Type          string
	PurchasedOnly bool
	AvailableOnly bool
	Affordable    int64
}

// FilterRewards applies the read-side reward filters.
func FilterRewards(rewards []Reward, filter RewardFilter) []Reward {
	out := make([]Reward, 0, len(rewards))
	for _, r := range rewards {
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.PurchasedOnly && !r.IsPurchased {
			continue
		}
		if filter.AvailableOnly && (r.IsPurchased || !r.IsUnlocked) {
			continue
		}
		if filter.Affordable > 0 && r.Cost > filter.Affordable {
			continue
		}
		out = append(out, r)
	}
	return out
}
