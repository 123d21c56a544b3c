package analytics

import (
	"testing"

	"github.com/fitterhq/fitter-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// historyWithOverall builds daily scores where every metric tracks the given
// overall values.
func historyWithOverall(values ...float64) []HealthScore {
	history := make([]HealthScore, 0, len(values))
	for _, v := range values {
		history = append(history, HealthScore{
			Overall:   v,
			Nutrition: v,
			Activity:  v,
			Hydration: v,
			Fasting:   v,
		})
	}
	return history
}

// flatDays repeats a value for n days.
func flatDays(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func trendFor(t *testing.T, trends []TrendData, metric string) TrendData {
	t.Helper()
	for _, tr := range trends {
		if tr.Metric == metric {
			return tr
		}
	}
	t.Fatalf("no trend for metric %s", metric)
	return TrendData{}
}

func TestAnalyzeTrendsEmptyHistory(t *testing.T) {
	analyzer := NewTrendAnalyzer(config.DefaultScoring())

	trends := analyzer.AnalyzeTrends(nil)

	require.Len(t, trends, len(Metrics))
	for _, tr := range trends {
		assert.Equal(t, TrendStable, tr.Direction, tr.Metric)
		assert.Nil(t, tr.Predicted, tr.Metric)
		assert.Empty(t, tr.History, tr.Metric)
	}
}

func TestAnalyzeTrendsSingleBucketIsStable(t *testing.T) {
	analyzer := NewTrendAnalyzer(config.DefaultScoring())

	// Five days fit in one bucket, not enough to call a direction.
	trends := analyzer.AnalyzeTrends(historyWithOverall(flatDays(5, 60)...))

	overall := trendFor(t, trends, MetricOverall)
	assert.Equal(t, TrendStable, overall.Direction)
	assert.Nil(t, overall.Predicted)
	assert.Len(t, overall.History, 1)
}

func TestAnalyzeTrendsClassification(t *testing.T) {
	tests := []struct {
		name     string
		days     []float64
		expected TrendDirection
	}{
		{
			name:     "Rising week over week is improving",
			days:     append(flatDays(7, 50), flatDays(7, 70)...),
			expected: TrendImproving,
		},
		{
			name:     "Falling week over week is declining",
			days:     append(flatDays(7, 70), flatDays(7, 50)...),
			expected: TrendDeclining,
		},
		{
			name:     "Movement inside the threshold is stable",
			days:     append(flatDays(7, 60), flatDays(7, 63)...),
			expected: TrendStable,
		},
		{
			name: "Large swings are volatile even with a net rise",
			days: append(append(append(
				flatDays(7, 20), flatDays(7, 90)...),
				flatDays(7, 25)...),
				flatDays(7, 95)...),
			expected: TrendVolatile,
		},
	}

	analyzer := NewTrendAnalyzer(config.DefaultScoring())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trends := analyzer.AnalyzeTrends(historyWithOverall(tt.days...))
			overall := trendFor(t, trends, MetricOverall)
			assert.Equal(t, tt.expected, overall.Direction)
		})
	}
}

func TestAnalyzeTrendsPrediction(t *testing.T) {
	analyzer := NewTrendAnalyzer(config.DefaultScoring())

	// Buckets 50 then 70, average delta +20, forecast 90.
	days := append(flatDays(7, 50), flatDays(7, 70)...)
	trends := analyzer.AnalyzeTrends(historyWithOverall(days...))

	overall := trendFor(t, trends, MetricOverall)
	require.NotNil(t, overall.Predicted)
	assert.InDelta(t, 90, *overall.Predicted, 0.001)
}

func TestAnalyzeTrendsPredictionIsClamped(t *testing.T) {
	analyzer := NewTrendAnalyzer(config.DefaultScoring())

	// Buckets 60 then 95 extrapolate past 100; the forecast stays in range.
	days := append(flatDays(7, 60), flatDays(7, 95)...)
	trends := analyzer.AnalyzeTrends(historyWithOverall(days...))

	overall := trendFor(t, trends, MetricOverall)
	require.NotNil(t, overall.Predicted)
	assert.Equal(t, 100.0, *overall.Predicted)
}

func TestAnalyzeTrendsKeepsPartialTrailingBucket(t *testing.T) {
	analyzer := NewTrendAnalyzer(config.DefaultScoring())

	// Ten days make one full bucket and a three day remainder.
	days := append(flatDays(7, 50), flatDays(3, 80)...)
	trends := analyzer.AnalyzeTrends(historyWithOverall(days...))

	overall := trendFor(t, trends, MetricOverall)
	require.Len(t, overall.History, 2)
	assert.InDelta(t, 50, overall.History[0], 0.001)
	assert.InDelta(t, 80, overall.History[1], 0.001)
}
