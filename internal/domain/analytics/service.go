package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/fitterhq/fitter-backend/internal/infrastructure/cache"
	"github.com/fitterhq/fitter-backend/pkg/config"
	"github.com/fitterhq/fitter-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the analytics surface exposed to the API layer. All
// computations are snapshot-then-compute: the activity store is read once
// and the pure calculators run on the materialized window.
type Service interface {
	GetHealthScore(ctx context.Context, userID uuid.UUID, profile activity.Profile, from, to time.Time) (HealthScore, error)
	GetTrends(ctx context.Context, userID uuid.UUID, profile activity.Profile, asOf time.Time) ([]TrendData, error)
	GetInsights(ctx context.Context, userID uuid.UUID, profile activity.Profile, streaks []StreakStatus, asOf time.Time) ([]SmartInsight, error)
}

// ScoreCache is the cache surface used to reuse computed health scores.
// The redis client in infrastructure/cache implements it.
type ScoreCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

type service struct {
	store      activity.Store
	calculator *Calculator
	analyzer   *TrendAnalyzer
	generator  *InsightGenerator
	cfg        config.ScoringConfig
	scores     ScoreCache
	log        *logger.Logger

	// last computed score per user, feeds the achievement insight rule
	mu         sync.RWMutex
	lastScores map[uuid.UUID]HealthScore
}

// NewService wires the calculators over the given activity store. scores may
// be nil; caching is then skipped.
func NewService(store activity.Store, cfg config.ScoringConfig, scores ScoreCache, log *logger.Logger) Service {
	return &service{
		store:      store,
		calculator: NewCalculator(cfg),
		analyzer:   NewTrendAnalyzer(cfg),
		generator:  NewInsightGenerator(),
		cfg:        cfg,
		scores:     scores,
		log:        log,
		lastScores: make(map[uuid.UUID]HealthScore),
	}
}

func (s *service) GetHealthScore(ctx context.Context, userID uuid.UUID, profile activity.Profile, from, to time.Time) (HealthScore, error) {
	key := scoreKey(userID, from, to)
	if s.scores != nil {
		var cached HealthScore
		err := s.scores.GetJSON(ctx, key, &cached)
		switch {
		case err == nil:
			s.mu.Lock()
			s.lastScores[userID] = cached
			s.mu.Unlock()
			s.log.Debug("Served health score from cache",
				zap.String("user_id", userID.String()))
			return cached, nil
		case errors.Is(err, cache.ErrCacheNotFound) || errors.Is(err, cache.ErrCacheConnection):
			// miss or redis unavailable, compute fresh
		default:
			// unreadable entry, drop it so it stops shadowing the key
			if derr := s.scores.Delete(ctx, key); derr != nil {
				s.log.Warn("Failed to drop cached health score", zap.Error(derr))
			}
		}
	}

	window, err := s.snapshot(ctx, userID, from, to)
	if err != nil {
		return HealthScore{}, err
	}

	score := s.calculator.ComputeHealthScore(window, profile)

	s.mu.Lock()
	s.lastScores[userID] = score
	s.mu.Unlock()

	if s.scores != nil {
		if err := s.scores.SetJSON(ctx, key, score); err != nil {
			s.log.Warn("Failed to cache health score", zap.Error(err))
		}
	}

	s.log.Debug("Computed health score",
		zap.String("user_id", userID.String()),
		zap.Float64("overall", score.Overall))
	return score, nil
}

func scoreKey(userID uuid.UUID, from, to time.Time) string {
	return fmt.Sprintf("score:%s:%s:%s", userID, from.UTC().Format("20060102"), to.UTC().Format("20060102"))
}

func (s *service) GetTrends(ctx context.Context, userID uuid.UUID, profile activity.Profile, asOf time.Time) ([]TrendData, error) {
	history, err := s.dailyScores(ctx, userID, profile, asOf)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeTrends(history), nil
}

func (s *service) GetInsights(ctx context.Context, userID uuid.UUID, profile activity.Profile, streaks []StreakStatus, asOf time.Time) ([]SmartInsight, error) {
	s.mu.RLock()
	prevScore, hasPrev := s.lastScores[userID]
	s.mu.RUnlock()

	from := asOf.AddDate(0, 0, -7)
	window, err := s.snapshot(ctx, userID, from, asOf)
	if err != nil {
		return nil, err
	}
	scores := s.calculator.ComputeHealthScore(window, profile)

	history, err := s.dailyScores(ctx, userID, profile, asOf)
	if err != nil {
		return nil, err
	}
	trends := s.analyzer.AnalyzeTrends(history)

	var prev *HealthScore
	if hasPrev {
		prev = &prevScore
	}

	insights := s.generator.GenerateInsights(scores, prev, trends, window, streaks)

	s.mu.Lock()
	s.lastScores[userID] = scores
	s.mu.Unlock()

	return insights, nil
}

// snapshot materializes an activity window from the store. An inverted
// range yields an empty window without touching the store.
func (s *service) snapshot(ctx context.Context, userID uuid.UUID, from, to time.Time) (activity.Window, error) {
	if from.After(to) {
		return activity.NewWindow(from, to, nil, nil, nil, nil), nil
	}

	food, err := s.store.GetFoodEntries(ctx, userID, from, to)
	if err != nil {
		return activity.Window{}, fmt.Errorf("failed to load food entries: %w", err)
	}
	exercise, err := s.store.GetExerciseEntries(ctx, userID, from, to)
	if err != nil {
		return activity.Window{}, fmt.Errorf("failed to load exercise entries: %w", err)
	}
	water, err := s.store.GetWaterEntries(ctx, userID, from, to)
	if err != nil {
		return activity.Window{}, fmt.Errorf("failed to load water entries: %w", err)
	}
	fasting, err := s.store.GetFastingSessions(ctx, userID, from, to)
	if err != nil {
		return activity.Window{}, fmt.Errorf("failed to load fasting sessions: %w", err)
	}

	return activity.NewWindow(from, to, food, exercise, water, fasting), nil
}

// dailyScores computes one HealthScore per day over the configured history
// window, oldest first, as input to the trend analyzer.
func (s *service) dailyScores(ctx context.Context, userID uuid.UUID, profile activity.Profile, asOf time.Time) ([]HealthScore, error) {
	days := s.cfg.HistoryWindowDays
	if days <= 0 {
		days = 28
	}

	start := asOf.UTC().Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))
	full, err := s.snapshot(ctx, userID, start, asOf)
	if err != nil {
		return nil, err
	}

	scores := make([]HealthScore, 0, days)
	for i := 0; i < days; i++ {
		dayStart := start.AddDate(0, 0, i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		day := activity.NewWindow(dayStart, dayEnd, full.Food, full.Exercise, full.Water, full.Fasting)
		scores = append(scores, s.calculator.ComputeHealthScore(day, profile))
	}
	return scores, nil
}
