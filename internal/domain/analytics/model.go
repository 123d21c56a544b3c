package analytics

import (
	"github.com/google/uuid"
)

// Metric names tracked by the trend analyzer.
const (
	MetricOverall   = "overall"
	MetricNutrition = "nutrition"
	MetricActivity  = "activity"
	MetricHydration = "hydration"
	MetricFasting   = "fasting"
)

// Metrics lists the tracked metrics in their display order.
var Metrics = []string{MetricOverall, MetricNutrition, MetricActivity, MetricHydration, MetricFasting}

// HealthScore is the per-window score breakdown. Every field is in [0,100].
type HealthScore struct {
	Overall   float64 `json:"overall"`
	Nutrition float64 `json:"nutrition"`
	Activity  float64 `json:"activity"`
	Hydration float64 `json:"hydration"`
	Fasting   float64 `json:"fasting"`
}

// Metric returns the named sub-score, the overall score for unknown names.
func (s HealthScore) Metric(name string) float64 {
	switch name {
	case MetricNutrition:
		return s.Nutrition
	case MetricActivity:
		return s.Activity
	case MetricHydration:
		return s.Hydration
	case MetricFasting:
		return s.Fasting
	default:
		return s.Overall
	}
}

// TrendDirection classifies the movement of a metric across buckets.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
	TrendVolatile  TrendDirection = "volatile"
)

// TrendData holds the bucketed history of one metric, oldest first, plus an
// optional next-period forecast. Predicted is nil with fewer than two
// buckets of history.
type TrendData struct {
	Metric    string         `json:"metric"`
	History   []float64      `json:"history"`
	Direction TrendDirection `json:"direction"`
	Predicted *float64       `json:"predicted,omitempty"`
}

// InsightCategory partitions the generated insights.
type InsightCategory string

const (
	InsightCorrelation  InsightCategory = "correlation"
	InsightPrediction   InsightCategory = "prediction"
	InsightOptimization InsightCategory = "optimization"
	InsightWarning      InsightCategory = "warning"
	InsightAchievement  InsightCategory = "achievement"
)

// SmartInsight is one rule-generated observation. IDs are regenerated on
// every analysis pass; insights carry no persisted identity.
type SmartInsight struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       InsightCategory `json:"category"`
	Confidence     float64         `json:"confidence"`
	Recommendation string          `json:"recommendation,omitempty"`
	Actionable     bool            `json:"actionable"`
	Impact         float64         `json:"impact"`
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
