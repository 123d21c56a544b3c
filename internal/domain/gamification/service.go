package gamification

import (
	"context"
	"sync"
	"time"

	"github.com/fitterhq/fitter-backend/internal/domain/events"
	"github.com/fitterhq/fitter-backend/pkg/config"
	"github.com/fitterhq/fitter-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Summary is the progression snapshot returned to the UI layer.
type Summary struct {
	TotalXP           int64       `json:"total_xp"`
	Points            int64       `json:"points"`
	Level             UserLevel   `json:"level"`
	NextLevelProgress float64     `json:"next_level_progress"`
	Streaks           []Streak    `json:"streaks"`
	Badges            []Badge     `json:"badges"`
	Challenges        []Challenge `json:"challenges"`
	Rewards           []Reward    `json:"rewards"`
}

// Service is the gamification surface exposed to the API layer. It keeps
// one engine per user, serializing mutations through the engine mutex,
// and persists state after every mutating call.
type Service interface {
	RecordActivity(ctx context.Context, userID uuid.UUID, ev ActivityEvent) error
	AwardXP(ctx context.Context, userID uuid.UUID, amount int64, reason string) error
	PurchaseReward(ctx context.Context, userID uuid.UUID, rewardID string) (bool, error)
	GetSummary(ctx context.Context, userID uuid.UUID) (Summary, error)
	GetBadges(ctx context.Context, userID uuid.UUID, filter BadgeFilter) ([]Badge, error)
	GetChallenges(ctx context.Context, userID uuid.UUID) ([]Challenge, error)
	GetRewards(ctx context.Context, userID uuid.UUID, filter RewardFilter) ([]Reward, error)
	GetStreaks(ctx context.Context, userID uuid.UUID) ([]Streak, error)
}

type service struct {
	cfg       config.GamificationConfig
	repo      Repository
	publisher events.Publisher
	log       *logger.Logger

	mu      sync.Mutex
	engines map[uuid.UUID]*Engine
}

// NewService wires the progression engine over the given repository.
// repo may be nil for in-memory operation (tests, demos).
func NewService(cfg config.GamificationConfig, repo Repository, publisher events.Publisher, log *logger.Logger) Service {
	return &service{
		cfg:       cfg,
		repo:      repo,
		publisher: publisher,
		log:       log,
		engines:   make(map[uuid.UUID]*Engine),
	}
}

func (s *service) RecordActivity(ctx context.Context, userID uuid.UUID, ev ActivityEvent) error {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return err
	}
	engine.RecordActivity(ctx, ev)

	if s.repo != nil {
		if err := s.repo.RecordXPEvent(ctx, &XPEvent{
			UserID:    userID,
			Amount:    engine.xpFor(ev),
			Reason:    string(ev.Kind) + "_logged",
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			s.log.Warn("Failed to record XP event", zap.Error(err))
		}
	}
	return s.persist(ctx, userID, engine)
}

func (s *service) AwardXP(ctx context.Context, userID uuid.UUID, amount int64, reason string) error {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return err
	}
	engine.AwardXP(ctx, amount, reason)

	if s.repo != nil && amount > 0 {
		if err := s.repo.RecordXPEvent(ctx, &XPEvent{
			UserID:    userID,
			Amount:    amount,
			Reason:    reason,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			s.log.Warn("Failed to record XP event", zap.Error(err))
		}
	}
	return s.persist(ctx, userID, engine)
}

func (s *service) PurchaseReward(ctx context.Context, userID uuid.UUID, rewardID string) (bool, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return false, err
	}
	ok, err := engine.PurchaseReward(ctx, rewardID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return true, s.persist(ctx, userID, engine)
}

func (s *service) GetSummary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalXP:           engine.TotalXP(),
		Points:            engine.Points(),
		Level:             engine.Level(),
		NextLevelProgress: engine.NextLevelProgress(),
		Streaks:           engine.Streaks(ctx),
		Badges:            engine.Badges(),
		Challenges:        engine.Challenges(),
		Rewards:           engine.Rewards(),
	}, nil
}

func (s *service) GetBadges(ctx context.Context, userID uuid.UUID, filter BadgeFilter) ([]Badge, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterBadges(engine.Badges(), filter), nil
}

func (s *service) GetChallenges(ctx context.Context, userID uuid.UUID) ([]Challenge, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.Challenges(), nil
}

func (s *service) GetRewards(ctx context.Context, userID uuid.UUID, filter RewardFilter) ([]Reward, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterRewards(engine.Rewards(), filter), nil
}

func (s *service) GetStreaks(ctx context.Context, userID uuid.UUID) ([]Streak, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.Streaks(ctx), nil
}

// engine returns the cached engine for the user, restoring it from the
// repository or creating a fresh one on first access.
func (s *service) engine(ctx context.Context, userID uuid.UUID) (*Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if engine, ok := s.engines[userID]; ok {
		return engine, nil
	}

	if s.repo != nil {
		state, err := s.repo.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if state != nil {
			engine := NewEngineFromState(userID, s.cfg, *state, s.publisher, s.log)
			s.engines[userID] = engine
			return engine, nil
		}
	}

	engine := NewEngine(userID, s.cfg, s.publisher, s.log)
	s.engines[userID] = engine
	return engine, nil
}

func (s *service) persist(ctx context.Context, userID uuid.UUID, engine *Engine) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, userID, engine.ExportState()); err != nil {
		s.log.Error("Failed to persist progression state",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return err
	}
	return nil
}
