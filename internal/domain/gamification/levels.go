package gamification

import (
	"math"
)

// levelCurve maps total XP to levels. The XP required to reach level N is
// base * (N-1)^1.5 rounded, which is strictly increasing in N.
type levelCurve struct {
	base float64
}

func newLevelCurve(base float64) levelCurve {
	if base <= 0 {
		base = 100
	}
	return levelCurve{base: base}
}

// XPRequiredFor returns the total XP needed to reach the given level.
// Level 1 is the floor at 0 XP.
func (c levelCurve) XPRequiredFor(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(math.Round(c.base * math.Pow(float64(level-1), 1.5)))
}

// LevelForXP returns the level a total XP amount lands in.
func (c levelCurve) LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	level := 1
	for c.XPRequiredFor(level+1) <= xp {
		level++
	}
	return level
}

// Progress returns the position within the current level's band as a
// percentage in [0,100]. It reaches exactly 100 only at a level boundary.
func (c levelCurve) Progress(xp int64) float64 {
	if xp < 0 {
		xp = 0
	}
	level := c.LevelForXP(xp)
	floor := c.XPRequiredFor(level)
	next := c.XPRequiredFor(level + 1)
	if next <= floor {
		return 0
	}
	pct := 100 * float64(xp-floor) / float64(next-floor)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// UserLevelFor builds the full level band view for a total XP amount.
func (c levelCurve) UserLevelFor(xp int64) UserLevel {
	level := c.LevelForXP(xp)
	floor := c.XPRequiredFor(level)
	next := c.XPRequiredFor(level + 1)
	return UserLevel{
		Level:      level,
		Title:      titleForLevel(level),
		XPProgress: xp - floor,
		XPRequired: next - floor,
		Benefits:   benefitsForLevel(level),
	}
}

var levelTitles = []struct {
	minLevel int
	title    string
}{
	{25, "Legend"},
	{20, "Champion"},
	{15, "Master"},
	{10, "Veteran"},
	{7, "Athlete"},
	{5, "Committed"},
	{3, "Regular"},
	{2, "Beginner"},
	{1, "Newcomer"},
}

func titleForLevel(level int) string {
	for _, t := range levelTitles {
		if level >= t.minLevel {
			return t.title
		}
	}
	return "Newcomer"
}

func benefitsForLevel(level int) []string {
	benefits := []string{"Daily activity tracking"}
	if level >= 2 {
		benefits = append(benefits, "Reward store access")
	}
	if level >= 5 {
		benefits = append(benefits, "Advanced trend charts")
	}
	if level >= 10 {
		benefits = append(benefits, "Custom challenge creation")
	}
	if level >= 15 {
		benefits = append(benefits, "Exclusive badge styles")
	}
	return benefits
}
