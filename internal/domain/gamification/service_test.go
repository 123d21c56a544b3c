package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/fitterhq/fitter-backend/internal/domain/events"
	"github.com/fitterhq/fitter-backend/pkg/config"
	"github.com/fitterhq/fitter-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository keeps progression state in a map, standing in for the
// postgres repository.
type memoryRepository struct {
	states map[uuid.UUID]EngineState
	ledger []XPEvent
	saves  int
	loads  int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{states: make(map[uuid.UUID]EngineState)}
}

func (r *memoryRepository) Load(ctx context.Context, userID uuid.UUID) (*EngineState, error) {
	r.loads++
	state, ok := r.states[userID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (r *memoryRepository) Save(ctx context.Context, userID uuid.UUID, state EngineState) error {
	r.saves++
	r.states[userID] = state
	return nil
}

func (r *memoryRepository) RecordXPEvent(ctx context.Context, event *XPEvent) error {
	r.ledger = append(r.ledger, *event)
	return nil
}

func (r *memoryRepository) GetXPEvents(ctx context.Context, userID uuid.UUID, limit int) ([]XPEvent, error) {
	var out []XPEvent
	for _, e := range r.ledger {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestServiceRecordActivityPersistsState(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(config.DefaultGamification(), repo, events.NopPublisher{}, logger.NewNop())
	userID := uuid.New()

	err := svc.RecordActivity(ctx, userID, ActivityEvent{Kind: ActivityFood, Timestamp: day1})
	require.NoError(t, err)

	require.Contains(t, repo.states, userID)
	assert.Equal(t, int64(10), repo.states[userID].TotalXP)
	require.Len(t, repo.ledger, 1)
	assert.Equal(t, "food_logged", repo.ledger[0].Reason)
}

func TestServiceRestoresEngineFromRepository(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	userID := uuid.New()
	repo.states[userID] = EngineState{TotalXP: 300, Points: 75}

	svc := NewService(config.DefaultGamification(), repo, events.NopPublisher{}, logger.NewNop())

	summary, err := svc.GetSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), summary.TotalXP)
	assert.Equal(t, int64(75), summary.Points)
	assert.Equal(t, 3, summary.Level.Level)
	assert.Equal(t, 1, repo.loads)
}

func TestServiceCachesEnginesPerUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(config.DefaultGamification(), repo, events.NopPublisher{}, logger.NewNop())
	userID := uuid.New()

	_, err := svc.GetSummary(ctx, userID)
	require.NoError(t, err)
	_, err = svc.GetSummary(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.loads)
}

func TestServiceWorksWithoutRepository(t *testing.T) {
	ctx := context.Background()
	svc := NewService(config.DefaultGamification(), nil, events.NopPublisher{}, logger.NewNop())
	userID := uuid.New()

	require.NoError(t, svc.AwardXP(ctx, userID, 50, "bonus"))

	summary, err := svc.GetSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), summary.TotalXP)
}

func TestServicePurchaseRewardOnlyPersistsOnSuccess(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	userID := uuid.New()
	repo.states[userID] = EngineState{TotalXP: 300, Points: 150}

	svc := NewService(config.DefaultGamification(), repo, events.NopPublisher{}, logger.NewNop())

	ok, err := svc.PurchaseReward(ctx, userID, "icon_pack_retro") // costs 250
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, repo.saves)

	ok, err = svc.PurchaseReward(ctx, userID, "theme_midnight")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, int64(50), repo.states[userID].Points)
}

func TestServiceAwardXPRecordsLedgerEntry(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	svc := NewService(config.DefaultGamification(), repo, events.NopPublisher{}, logger.NewNop())
	userID := uuid.New()

	require.NoError(t, svc.AwardXP(ctx, userID, 40, "weekly_bonus"))
	require.NoError(t, svc.AwardXP(ctx, userID, -10, "invalid"))

	entries, err := repo.GetXPEvents(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(40), entries[0].Amount)
	assert.Equal(t, "weekly_bonus", entries[0].Reason)
}

func TestServiceStreaksSurviveRestore(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	userID := uuid.New()

	first := NewService(config.DefaultGamification(), repo, events.NopPublisher{}, logger.NewNop())
	now := time.Now().UTC()
	require.NoError(t, first.RecordActivity(ctx, userID, ActivityEvent{Kind: ActivityWater, Milliliters: 400, Timestamp: now}))

	// A new service instance simulates a process restart.
	second := NewService(config.DefaultGamification(), repo, events.NopPublisher{}, logger.NewNop())
	streaks, err := second.GetStreaks(ctx, userID)
	require.NoError(t, err)

	var water Streak
	for _, s := range streaks {
		if s.Type == StreakWater {
			water = s
		}
	}
	assert.Equal(t, 1, water.Current)
	assert.True(t, water.IsActive)
}
