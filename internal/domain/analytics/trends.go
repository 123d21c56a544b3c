package analytics

import (
	"github.com/fitterhq/fitter-backend/pkg/config"
)

// TrendAnalyzer computes week-over-week movement for each tracked metric
// from an ordered history of daily health scores (oldest first).
type TrendAnalyzer struct {
	cfg config.ScoringConfig
}

// NewTrendAnalyzer builds an analyzer with the given parameters.
func NewTrendAnalyzer(cfg config.ScoringConfig) *TrendAnalyzer {
	return &TrendAnalyzer{cfg: cfg}
}

// AnalyzeTrends returns one TrendData per tracked metric, even when history
// is empty (direction stable, no prediction).
func (a *TrendAnalyzer) AnalyzeTrends(history []HealthScore) []TrendData {
	trends := make([]TrendData, 0, len(Metrics))
	for _, metric := range Metrics {
		trends = append(trends, a.analyzeMetric(metric, history))
	}
	return trends
}

func (a *TrendAnalyzer) analyzeMetric(metric string, history []HealthScore) TrendData {
	values := make([]float64, 0, len(history))
	for _, s := range history {
		values = append(values, s.Metric(metric))
	}

	buckets := a.bucketMeans(values)
	trend := TrendData{
		Metric:    metric,
		History:   buckets,
		Direction: a.classify(buckets),
	}

	if len(buckets) >= 2 {
		p := clampScore(predictNext(buckets))
		trend.Predicted = &p
	}
	return trend
}

// bucketMeans splits the daily values into fixed-size buckets and averages
// each one. A trailing partial bucket is kept so recent days still count.
func (a *TrendAnalyzer) bucketMeans(values []float64) []float64 {
	size := a.cfg.TrendBucketDays
	if size <= 0 {
		size = 7
	}

	var buckets []float64
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		buckets = append(buckets, mean(values[start:end]))
	}
	return buckets
}

// classify checks volatility first; a swinging metric is volatile no matter
// the net slope. Otherwise the first-half and second-half averages decide.
func (a *TrendAnalyzer) classify(buckets []float64) TrendDirection {
	if len(buckets) < 2 {
		return TrendStable
	}

	if bucketVariance(buckets) > a.cfg.VolatilityCeiling {
		return TrendVolatile
	}

	half := len(buckets) / 2
	firstHalf := mean(buckets[:half])
	secondHalf := mean(buckets[half:])

	delta := secondHalf - firstHalf
	switch {
	case delta > a.cfg.TrendThreshold:
		return TrendImproving
	case delta < -a.cfg.TrendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// predictNext extrapolates one bucket ahead: last mean plus the average of
// the historical bucket-to-bucket deltas.
func predictNext(buckets []float64) float64 {
	var deltaSum float64
	for i := 1; i < len(buckets); i++ {
		deltaSum += buckets[i] - buckets[i-1]
	}
	avgDelta := deltaSum / float64(len(buckets)-1)
	return buckets[len(buckets)-1] + avgDelta
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func bucketVariance(values []float64) float64 {
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}
