package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/google/uuid"
)

// Rule confidences are fixed heuristics, not learned. The prediction rule
// scales with data volume but stays inside [50,80].
const (
	confidenceCorrelation     = 60.0
	confidencePredictionBase  = 50.0
	confidencePredictionLimit = 80.0
	confidenceOptimization    = 75.0
	confidenceWarning         = 90.0
	confidenceAchievement     = 85.0

	optimizationFloor   = 50.0
	optimizationHealthy = 70.0
	achievementBar      = 80.0
	predictionMinDelta  = 5.0
)

// rulePriority breaks confidence/impact ties: lower value sorts first.
var rulePriority = map[InsightCategory]int{
	InsightWarning:      0,
	InsightAchievement:  1,
	InsightOptimization: 2,
	InsightCorrelation:  3,
	InsightPrediction:   4,
}

// StreakStatus is the slice of progression state the warning rule looks at.
// The caller maps its streaks into this shape so the generator stays
// decoupled from the progression engine.
type StreakStatus struct {
	Category string
	Current  int
	Best     int
	Active   bool
}

// InsightGenerator runs the fixed rule set over the latest computation.
// Each rule yields at most one insight per pass.
type InsightGenerator struct{}

// NewInsightGenerator builds a generator.
func NewInsightGenerator() *InsightGenerator {
	return &InsightGenerator{}
}

// GenerateInsights evaluates every rule and returns the results ordered by
// descending confidence, then descending absolute impact, then the fixed
// rule priority warning > achievement > optimization > correlation >
// prediction. prev may be nil on the first computation.
func (g *InsightGenerator) GenerateInsights(scores HealthScore, prev *HealthScore, trends []TrendData, window activity.Window, streaks []StreakStatus) []SmartInsight {
	insights := make([]SmartInsight, 0, 5)

	if in := g.warningRule(streaks); in != nil {
		insights = append(insights, *in)
	}
	if in := g.achievementRule(scores, prev); in != nil {
		insights = append(insights, *in)
	}
	if in := g.optimizationRule(scores); in != nil {
		insights = append(insights, *in)
	}
	if in := g.correlationRule(trends); in != nil {
		insights = append(insights, *in)
	}
	if in := g.predictionRule(trends); in != nil {
		insights = append(insights, *in)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Confidence != insights[j].Confidence {
			return insights[i].Confidence > insights[j].Confidence
		}
		ai, aj := math.Abs(insights[i].Impact), math.Abs(insights[j].Impact)
		if ai != aj {
			return ai > aj
		}
		return rulePriority[insights[i].Category] < rulePriority[insights[j].Category]
	})

	return insights
}

// warningRule fires when a previously built-up streak is currently broken.
func (g *InsightGenerator) warningRule(streaks []StreakStatus) *SmartInsight {
	for _, s := range streaks {
		if s.Best > 0 && s.Current == 0 && !s.Active {
			return &SmartInsight{
				ID:          uuid.New(),
				Title:       "Streak broken",
				Description: fmt.Sprintf("Your %s streak ended after %d days. Logging today starts a new one.", s.Category, s.Best),
				Category:    InsightWarning,
				Confidence:  confidenceWarning,
				Actionable:  true,
				Recommendation: fmt.Sprintf(
					"Log a %s entry today to get back on track.", s.Category),
				Impact: -20,
			}
		}
	}
	return nil
}

// achievementRule fires when any sub-score crossed the 80 bar since the
// previous computation.
func (g *InsightGenerator) achievementRule(scores HealthScore, prev *HealthScore) *SmartInsight {
	if prev == nil {
		return nil
	}
	for _, metric := range []string{MetricNutrition, MetricActivity, MetricHydration, MetricFasting} {
		before := prev.Metric(metric)
		after := scores.Metric(metric)
		if before < achievementBar && after >= achievementBar {
			return &SmartInsight{
				ID:          uuid.New(),
				Title:       "New high score",
				Description: fmt.Sprintf("Your %s score climbed from %.0f to %.0f.", metric, before, after),
				Category:    InsightAchievement,
				Confidence:  confidenceAchievement,
				Impact:      15,
			}
		}
	}
	return nil
}

// optimizationRule fires when exactly one sub-score lags well behind
// otherwise healthy metrics.
func (g *InsightGenerator) optimizationRule(scores HealthScore) *SmartInsight {
	metrics := []string{MetricNutrition, MetricActivity, MetricHydration, MetricFasting}

	lowest := metrics[0]
	for _, m := range metrics[1:] {
		if scores.Metric(m) < scores.Metric(lowest) {
			lowest = m
		}
	}
	if scores.Metric(lowest) >= optimizationFloor {
		return nil
	}
	for _, m := range metrics {
		if m != lowest && scores.Metric(m) < optimizationHealthy {
			return nil
		}
	}

	return &SmartInsight{
		ID:             uuid.New(),
		Title:          fmt.Sprintf("Focus on %s", lowest),
		Description:    fmt.Sprintf("Your %s score (%.0f) is holding back an otherwise strong week.", lowest, scores.Metric(lowest)),
		Category:       InsightOptimization,
		Confidence:     confidenceOptimization,
		Actionable:     true,
		Recommendation: optimizationAdvice(lowest),
		Impact:         12,
	}
}

func optimizationAdvice(metric string) string {
	switch metric {
	case MetricNutrition:
		return "Aim for your calorie target with a balanced macro split at your next meal."
	case MetricActivity:
		return "A 30 minute session today would lift your weekly activity total."
	case MetricHydration:
		return "Spread your water intake across the day to reach your goal."
	case MetricFasting:
		return "Try to carry your next fast through to its target duration."
	default:
		return "Keep logging consistently to improve this score."
	}
}

// correlationRule fires when hydration and activity improve together over
// the same window.
func (g *InsightGenerator) correlationRule(trends []TrendData) *SmartInsight {
	var hydration, act *TrendData
	for i := range trends {
		switch trends[i].Metric {
		case MetricHydration:
			hydration = &trends[i]
		case MetricActivity:
			act = &trends[i]
		}
	}
	if hydration == nil || act == nil {
		return nil
	}
	if hydration.Direction != TrendImproving || act.Direction != TrendImproving {
		return nil
	}

	return &SmartInsight{
		ID:          uuid.New(),
		Title:       "Hydration and activity rising together",
		Description: "Your hydration and activity scores have been improving over the same period. Staying hydrated tends to support better workouts.",
		Category:    InsightCorrelation,
		Confidence:  confidenceCorrelation,
		Impact:      10,
	}
}

// predictionRule surfaces the largest forecast movement when it clears the
// minimum magnitude. Confidence grows with the amount of bucketed history.
func (g *InsightGenerator) predictionRule(trends []TrendData) *SmartInsight {
	var best *TrendData
	var bestDelta float64
	for i := range trends {
		t := &trends[i]
		if t.Predicted == nil || len(t.History) == 0 {
			continue
		}
		delta := *t.Predicted - t.History[len(t.History)-1]
		if math.Abs(delta) < predictionMinDelta {
			continue
		}
		if best == nil || math.Abs(delta) > math.Abs(bestDelta) {
			best = t
			bestDelta = delta
		}
	}
	if best == nil {
		return nil
	}

	confidence := confidencePredictionBase + 5*float64(len(best.History))
	if confidence > confidencePredictionLimit {
		confidence = confidencePredictionLimit
	}

	verb := "rise"
	if bestDelta < 0 {
		verb = "drop"
	}
	return &SmartInsight{
		ID:          uuid.New(),
		Title:       fmt.Sprintf("%s score expected to %s", best.Metric, verb),
		Description: fmt.Sprintf("At the current pace your %s score should %s to about %.0f next week.", best.Metric, verb, *best.Predicted),
		Category:    InsightPrediction,
		Confidence:  confidence,
		Impact:      bestDelta,
	}
}
