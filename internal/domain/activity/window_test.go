package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWindowDropsOutOfRangeEntries(t *testing.T) {
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	food := []FoodEntry{
		{Calories: 500, Timestamp: from.Add(-time.Hour)}, // before
		{Calories: 600, Timestamp: from},                 // inclusive start
		{Calories: 700, Timestamp: to.Add(-time.Second)}, // inside
		{Calories: 800, Timestamp: to},                   // exclusive end
	}

	w := NewWindow(from, to, food, nil, nil, nil)

	assert.Len(t, w.Food, 2)
	assert.Equal(t, 600.0, w.Food[0].Calories)
	assert.Equal(t, 700.0, w.Food[1].Calories)
}

func TestNewWindowInvertedRangeIsEmpty(t *testing.T) {
	from := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)

	food := []FoodEntry{{Calories: 500, Timestamp: to.Add(time.Hour)}}
	w := NewWindow(from, to, food, nil, nil, nil)

	assert.True(t, w.IsEmpty())
	assert.Equal(t, 1, w.Days())
}

func TestWindowDays(t *testing.T) {
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		to       time.Time
		expected int
	}{
		{"Exact week", from.AddDate(0, 0, 7), 7},
		{"Partial day rounds up", from.Add(36 * time.Hour), 2},
		{"Zero span is still one day", from, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(from, tt.to, nil, nil, nil, nil)
			assert.Equal(t, tt.expected, w.Days())
		})
	}
}

func TestFastingSessionDuration(t *testing.T) {
	start := time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)

	t.Run("Running session has zero duration", func(t *testing.T) {
		s := FastingSession{StartedAt: start, TargetHours: 16}
		assert.Equal(t, 0.0, s.DurationHours())
		assert.False(t, s.Completed())
	})

	t.Run("Completed session reaches target", func(t *testing.T) {
		end := start.Add(17 * time.Hour)
		s := FastingSession{StartedAt: start, EndedAt: &end, TargetHours: 16}
		assert.InDelta(t, 17, s.DurationHours(), 0.001)
		assert.True(t, s.Completed())
	})

	t.Run("End before start clamps to zero", func(t *testing.T) {
		end := start.Add(-2 * time.Hour)
		s := FastingSession{StartedAt: start, EndedAt: &end, TargetHours: 16}
		assert.Equal(t, 0.0, s.DurationHours())
		assert.False(t, s.Completed())
	})
}
