package analytics

import (
	"testing"

	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyWindow() activity.Window {
	return activity.NewWindow(weekFrom, weekTo, nil, nil, nil, nil)
}

func findInsight(insights []SmartInsight, category InsightCategory) *SmartInsight {
	for i := range insights {
		if insights[i].Category == category {
			return &insights[i]
		}
	}
	return nil
}

func TestWarningRuleFiresOnBrokenStreak(t *testing.T) {
	gen := NewInsightGenerator()
	streaks := []StreakStatus{
		{Category: "food", Current: 3, Best: 5, Active: true},
		{Category: "water", Current: 0, Best: 10, Active: false},
	}

	insights := gen.GenerateInsights(HealthScore{}, nil, nil, emptyWindow(), streaks)

	warning := findInsight(insights, InsightWarning)
	require.NotNil(t, warning)
	assert.Equal(t, confidenceWarning, warning.Confidence)
	assert.True(t, warning.Actionable)
	assert.Contains(t, warning.Description, "water")
}

func TestWarningRuleQuietWhenStreaksHealthy(t *testing.T) {
	gen := NewInsightGenerator()
	streaks := []StreakStatus{
		{Category: "food", Current: 3, Best: 5, Active: true},
		{Category: "water", Current: 0, Best: 0, Active: false}, // never started
	}

	insights := gen.GenerateInsights(HealthScore{}, nil, nil, emptyWindow(), streaks)

	assert.Nil(t, findInsight(insights, InsightWarning))
}

func TestAchievementRuleFiresOnCrossing(t *testing.T) {
	gen := NewInsightGenerator()
	prev := &HealthScore{Nutrition: 75, Activity: 60, Hydration: 60, Fasting: 60}
	curr := HealthScore{Nutrition: 85, Activity: 60, Hydration: 60, Fasting: 60}

	insights := gen.GenerateInsights(curr, prev, nil, emptyWindow(), nil)

	achievement := findInsight(insights, InsightAchievement)
	require.NotNil(t, achievement)
	assert.Contains(t, achievement.Description, "nutrition")
}

func TestAchievementRuleNeedsPreviousComputation(t *testing.T) {
	gen := NewInsightGenerator()
	curr := HealthScore{Nutrition: 85, Activity: 85, Hydration: 85, Fasting: 85}

	insights := gen.GenerateInsights(curr, nil, nil, emptyWindow(), nil)

	assert.Nil(t, findInsight(insights, InsightAchievement))
}

func TestAchievementRuleIgnoresMovementInsideTheBar(t *testing.T) {
	gen := NewInsightGenerator()
	prev := &HealthScore{Nutrition: 82, Activity: 60, Hydration: 60, Fasting: 60}
	curr := HealthScore{Nutrition: 95, Activity: 60, Hydration: 60, Fasting: 60}

	insights := gen.GenerateInsights(curr, prev, nil, emptyWindow(), nil)

	assert.Nil(t, findInsight(insights, InsightAchievement))
}

func TestOptimizationRuleFiresOnSingleLaggard(t *testing.T) {
	gen := NewInsightGenerator()
	curr := HealthScore{Nutrition: 85, Activity: 90, Hydration: 30, Fasting: 75}

	insights := gen.GenerateInsights(curr, nil, nil, emptyWindow(), nil)

	opt := findInsight(insights, InsightOptimization)
	require.NotNil(t, opt)
	assert.Contains(t, opt.Title, "hydration")
	assert.NotEmpty(t, opt.Recommendation)
}

func TestOptimizationRuleQuietWhenSeveralMetricsLag(t *testing.T) {
	gen := NewInsightGenerator()
	// Two weak metrics: no single focus to recommend.
	curr := HealthScore{Nutrition: 85, Activity: 45, Hydration: 30, Fasting: 75}

	insights := gen.GenerateInsights(curr, nil, nil, emptyWindow(), nil)

	assert.Nil(t, findInsight(insights, InsightOptimization))
}

func TestCorrelationRuleNeedsBothImproving(t *testing.T) {
	gen := NewInsightGenerator()

	tests := []struct {
		name      string
		hydration TrendDirection
		activity  TrendDirection
		fires     bool
	}{
		{"Both improving", TrendImproving, TrendImproving, true},
		{"Only hydration improving", TrendImproving, TrendStable, false},
		{"Only activity improving", TrendDeclining, TrendImproving, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trends := []TrendData{
				{Metric: MetricHydration, Direction: tt.hydration},
				{Metric: MetricActivity, Direction: tt.activity},
			}
			insights := gen.GenerateInsights(HealthScore{}, nil, trends, emptyWindow(), nil)
			got := findInsight(insights, InsightCorrelation)
			if tt.fires {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestPredictionRulePicksLargestForecastMove(t *testing.T) {
	gen := NewInsightGenerator()
	smallUp := 62.0
	bigDown := 40.0
	trends := []TrendData{
		{Metric: MetricNutrition, History: []float64{55, 58}, Predicted: &smallUp},
		{Metric: MetricActivity, History: []float64{60, 55}, Predicted: &bigDown},
	}

	insights := gen.GenerateInsights(HealthScore{}, nil, trends, emptyWindow(), nil)

	pred := findInsight(insights, InsightPrediction)
	require.NotNil(t, pred)
	assert.Contains(t, pred.Title, MetricActivity)
	assert.InDelta(t, -15, pred.Impact, 0.001)
}

func TestPredictionRuleIgnoresSmallDeltas(t *testing.T) {
	gen := NewInsightGenerator()
	almostFlat := 61.0
	trends := []TrendData{
		{Metric: MetricOverall, History: []float64{58, 60}, Predicted: &almostFlat},
	}

	insights := gen.GenerateInsights(HealthScore{}, nil, trends, emptyWindow(), nil)

	assert.Nil(t, findInsight(insights, InsightPrediction))
}

func TestPredictionConfidenceGrowsWithHistory(t *testing.T) {
	gen := NewInsightGenerator()
	forecast := 80.0

	short := []TrendData{{Metric: MetricOverall, History: []float64{60, 70}, Predicted: &forecast}}
	long := []TrendData{{Metric: MetricOverall, History: []float64{40, 45, 50, 55, 60, 65, 70}, Predicted: &forecast}}

	shortPred := findInsight(gen.GenerateInsights(HealthScore{}, nil, short, emptyWindow(), nil), InsightPrediction)
	longPred := findInsight(gen.GenerateInsights(HealthScore{}, nil, long, emptyWindow(), nil), InsightPrediction)

	require.NotNil(t, shortPred)
	require.NotNil(t, longPred)
	assert.InDelta(t, 60, shortPred.Confidence, 0.001)
	assert.Equal(t, confidencePredictionLimit, longPred.Confidence)
}

func TestInsightsSortedByConfidenceThenImpact(t *testing.T) {
	gen := NewInsightGenerator()

	// Fire every rule at once.
	prev := &HealthScore{Nutrition: 75, Activity: 75, Hydration: 60, Fasting: 75}
	curr := HealthScore{Nutrition: 85, Activity: 85, Hydration: 30, Fasting: 85}
	forecast := 95.0
	trends := []TrendData{
		{Metric: MetricHydration, Direction: TrendImproving},
		{Metric: MetricActivity, Direction: TrendImproving, History: []float64{70, 80}, Predicted: &forecast},
	}
	streaks := []StreakStatus{{Category: "food", Current: 0, Best: 8, Active: false}}

	insights := gen.GenerateInsights(curr, prev, trends, emptyWindow(), streaks)

	require.Len(t, insights, 5)
	assert.Equal(t, InsightWarning, insights[0].Category)
	assert.Equal(t, InsightAchievement, insights[1].Category)
	assert.Equal(t, InsightOptimization, insights[2].Category)
	// Prediction and correlation tie on confidence; the bigger absolute
	// impact wins.
	assert.Equal(t, InsightPrediction, insights[3].Category)
	assert.Equal(t, InsightCorrelation, insights[4].Category)
	for i := 1; i < len(insights); i++ {
		assert.GreaterOrEqual(t, insights[i-1].Confidence, insights[i].Confidence)
	}
}
