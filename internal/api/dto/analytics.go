package dto

import (
	"github.com/fitterhq/fitter-backend/internal/domain/analytics"
)

// HealthScoreResponse represents the health score breakdown for a window
type HealthScoreResponse struct {
	Overall   float64 `json:"overall"`
	Nutrition float64 `json:"nutrition"`
	Activity  float64 `json:"activity"`
	Hydration float64 `json:"hydration"`
	Fasting   float64 `json:"fasting"`
	From      string  `json:"from"`
	To        string  `json:"to"`
}

// TrendResponse represents one metric's trend
type TrendResponse struct {
	Metric    string    `json:"metric"`
	History   []float64 `json:"history"`
	Direction string    `json:"direction"`
	Predicted *float64  `json:"predicted,omitempty"`
}

// TrendListResponse wraps the trend list
type TrendListResponse struct {
	Trends []TrendResponse `json:"trends"`
}

// InsightResponse represents one generated insight
type InsightResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation,omitempty"`
	Actionable     bool    `json:"actionable"`
	Impact         float64 `json:"impact"`
}

// InsightListResponse wraps the insight list
type InsightListResponse struct {
	Insights []InsightResponse `json:"insights"`
}

// FromTrendData maps domain trends into the response shape
func FromTrendData(trends []analytics.TrendData) TrendListResponse {
	out := TrendListResponse{Trends: make([]TrendResponse, 0, len(trends))}
	for _, t := range trends {
		out.Trends = append(out.Trends, TrendResponse{
			Metric:    t.Metric,
			History:   t.History,
			Direction: string(t.Direction),
			Predicted: t.Predicted,
		})
	}
	return out
}

// FromInsights maps domain insights into the response shape
func FromInsights(insights []analytics.SmartInsight) InsightListResponse {
	out := InsightListResponse{Insights: make([]InsightResponse, 0, len(insights))}
	for _, in := range insights {
		out.Insights = append(out.Insights, InsightResponse{
			ID:             in.ID.String(),
			Title:          in.Title,
			Description:    in.Description,
			Category:       string(in.Category),
			Confidence:     in.Confidence,
			Recommendation: in.Recommendation,
			Actionable:     in.Actionable,
			Impact:         in.Impact,
		})
	}
	return out
}
