package activity

import (
	"context"
	"errors"
	"time"

	"github.com/fitterhq/fitter-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid activity input")
)

// Store is the activity query interface consumed by the analytics and
// progression services. Implementations must return entries ordered by time
// and treat an inverted range as empty rather than failing.
type Store interface {
	GetFoodEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]FoodEntry, error)
	GetExerciseEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ExerciseEntry, error)
	GetWaterEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]WaterEntry, error)
	GetFastingSessions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]FastingSession, error)

	LogFood(ctx context.Context, entry *FoodEntry) error
	LogExercise(ctx context.Context, entry *ExerciseEntry) error
	LogWater(ctx context.Context, entry *WaterEntry) error
	LogFasting(ctx context.Context, session *FastingSession) error
}

type gormStore struct {
	db *connection.Database
}

// NewStore returns a postgres-backed activity store.
func NewStore(db *connection.Database) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetFoodEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]FoodEntry, error) {
	var entries []FoodEntry
	if from.After(to) {
		return entries, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (s *gormStore) GetExerciseEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ExerciseEntry, error) {
	var entries []ExerciseEntry
	if from.After(to) {
		return entries, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (s *gormStore) GetWaterEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]WaterEntry, error) {
	var entries []WaterEntry
	if from.After(to) {
		return entries, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (s *gormStore) GetFastingSessions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]FastingSession, error) {
	var sessions []FastingSession
	if from.After(to) {
		return sessions, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, from, to).
		Order("started_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (s *gormStore) LogFood(ctx context.Context, entry *FoodEntry) error {
	if entry.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *gormStore) LogExercise(ctx context.Context, entry *ExerciseEntry) error {
	if entry.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *gormStore) LogWater(ctx context.Context, entry *WaterEntry) error {
	if entry.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *gormStore) LogFasting(ctx context.Context, session *FastingSession) error {
	if session.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(session).Error
}
