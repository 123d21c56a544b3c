package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fitterhq/fitter-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists per-user progression state and the XP ledger.
type Repository interface {
	Load(ctx context.Context, userID uuid.UUID) (*EngineState, error)
	Save(ctx context.Context, userID uuid.UUID, state EngineState) error
	RecordXPEvent(ctx context.Context, event *XPEvent) error
	GetXPEvents(ctx context.Context, userID uuid.UUID, limit int) ([]XPEvent, error)
}

type gormRepository struct {
	db *connection.Database
}

// NewRepository returns a postgres-backed progression repository.
func NewRepository(db *connection.Database) Repository {
	return &gormRepository{db: db}
}

// Load returns nil state without error when the user has no record yet.
func (r *gormRepository) Load(ctx context.Context, userID uuid.UUID) (*EngineState, error) {
	var record ProgressionRecord
	err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progression record: %w", err)
	}

	state := EngineState{
		TotalXP: record.TotalXP,
		Points:  record.Points,
	}
	if err := unmarshalInto(record.Streaks, &state.Streaks); err != nil {
		return nil, err
	}
	if err := unmarshalInto(record.Badges, &state.Badges); err != nil {
		return nil, err
	}
	if err := unmarshalInto(record.Challenges, &state.Challenges); err != nil {
		return nil, err
	}
	if err := unmarshalInto(record.Rewards, &state.Rewards); err != nil {
		return nil, err
	}
	if err := unmarshalInto(record.Counters, &state.Counters); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *gormRepository) Save(ctx context.Context, userID uuid.UUID, state EngineState) error {
	streaks, err := json.Marshal(state.Streaks)
	if err != nil {
		return fmt.Errorf("failed to marshal streaks: %w", err)
	}
	badges, err := json.Marshal(state.Badges)
	if err != nil {
		return fmt.Errorf("failed to marshal badges: %w", err)
	}
	challenges, err := json.Marshal(state.Challenges)
	if err != nil {
		return fmt.Errorf("failed to marshal challenges: %w", err)
	}
	rewards, err := json.Marshal(state.Rewards)
	if err != nil {
		return fmt.Errorf("failed to marshal rewards: %w", err)
	}
	counters, err := json.Marshal(state.Counters)
	if err != nil {
		return fmt.Errorf("failed to marshal counters: %w", err)
	}

	var unlocked []string
	for _, b := range state.Badges {
		if b.IsUnlocked {
			unlocked = append(unlocked, b.ID)
		}
	}

	record := ProgressionRecord{
		UserID:         userID,
		TotalXP:        state.TotalXP,
		Points:         state.Points,
		Streaks:        streaks,
		Badges:         badges,
		Challenges:     challenges,
		Rewards:        rewards,
		Counters:       counters,
		UnlockedBadges: unlocked,
	}

	return r.db.WithContext(ctx).Save(&record).Error
}

func (r *gormRepository) RecordXPEvent(ctx context.Context, event *XPEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gormRepository) GetXPEvents(ctx context.Context, userID uuid.UUID, limit int) ([]XPEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []XPEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func unmarshalInto(data []byte, dest interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal progression state: %w", err)
	}
	return nil
}
