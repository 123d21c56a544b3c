package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPRequiredForIsMonotonic(t *testing.T) {
	curve := newLevelCurve(100)

	prev := curve.XPRequiredFor(1)
	assert.Equal(t, int64(0), prev)

	for level := 2; level <= 50; level++ {
		required := curve.XPRequiredFor(level)
		assert.Greater(t, required, prev, "level %d", level)
		prev = required
	}
}

func TestLevelForXP(t *testing.T) {
	curve := newLevelCurve(100)

	tests := []struct {
		name     string
		xp       int64
		expected int
	}{
		{"Zero XP is level 1", 0, 1},
		{"Negative XP clamps to level 1", -50, 1},
		{"Just below the level 2 boundary", 99, 1},
		{"Exactly at the level 2 boundary", 100, 2},
		{"Level 3 needs 283", 283, 3},
		{"One short of level 3", 282, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, curve.LevelForXP(tt.xp))
		})
	}
}

func TestLevelRoundTripsThroughCurve(t *testing.T) {
	curve := newLevelCurve(100)
	for level := 1; level <= 30; level++ {
		xp := curve.XPRequiredFor(level)
		assert.Equal(t, level, curve.LevelForXP(xp), "xp %d", xp)
	}
}

func TestProgressStaysInRange(t *testing.T) {
	curve := newLevelCurve(100)
	for xp := int64(0); xp <= 5000; xp += 37 {
		p := curve.Progress(xp)
		assert.GreaterOrEqual(t, p, 0.0, "xp %d", xp)
		assert.LessOrEqual(t, p, 100.0, "xp %d", xp)
	}
}

func TestProgressAtBoundaries(t *testing.T) {
	curve := newLevelCurve(100)

	// A fresh level starts at 0 percent.
	assert.Equal(t, 0.0, curve.Progress(100))
	// Midway through level 1's band.
	assert.InDelta(t, 50, curve.Progress(50), 0.001)
}

func TestTitleForLevel(t *testing.T) {
	assert.Equal(t, "Newcomer", titleForLevel(1))
	assert.Equal(t, "Beginner", titleForLevel(2))
	assert.Equal(t, "Committed", titleForLevel(5))
	assert.Equal(t, "Veteran", titleForLevel(12))
	assert.Equal(t, "Legend", titleForLevel(40))
}

func TestUserLevelForCarriesBenefits(t *testing.T) {
	curve := newLevelCurve(100)

	lvl := curve.UserLevelFor(curve.XPRequiredFor(5))

	assert.Equal(t, 5, lvl.Level)
	assert.Contains(t, lvl.Benefits, "Reward store access")
	assert.Contains(t, lvl.Benefits, "Advanced trend charts")
	assert.NotContains(t, lvl.Benefits, "Custom challenge creation")
}

func TestDefaultCurveBaseOnBadInput(t *testing.T) {
	curve := newLevelCurve(0)
	assert.Equal(t, int64(100), curve.XPRequiredFor(2))
}
