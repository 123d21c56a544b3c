package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/fitterhq/fitter-backend/internal/infrastructure/cache"
	"github.com/fitterhq/fitter-backend/pkg/config"
	"github.com/fitterhq/fitter-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore serves fixed slices and counts reads so tests can assert the
// snapshot behavior.
type stubStore struct {
	food     []activity.FoodEntry
	exercise []activity.ExerciseEntry
	water    []activity.WaterEntry
	fasting  []activity.FastingSession
	err      error
	reads    int
}

func (s *stubStore) GetFoodEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]activity.FoodEntry, error) {
	s.reads++
	return s.food, s.err
}

func (s *stubStore) GetExerciseEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]activity.ExerciseEntry, error) {
	s.reads++
	return s.exercise, s.err
}

func (s *stubStore) GetWaterEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]activity.WaterEntry, error) {
	s.reads++
	return s.water, s.err
}

func (s *stubStore) GetFastingSessions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]activity.FastingSession, error) {
	s.reads++
	return s.fasting, s.err
}

func (s *stubStore) LogFood(ctx context.Context, entry *activity.FoodEntry) error { return s.err }
func (s *stubStore) LogExercise(ctx context.Context, entry *activity.ExerciseEntry) error {
	return s.err
}
func (s *stubStore) LogWater(ctx context.Context, entry *activity.WaterEntry) error { return s.err }
func (s *stubStore) LogFasting(ctx context.Context, session *activity.FastingSession) error {
	return s.err
}

// memoryScoreCache implements ScoreCache over a map of raw JSON entries.
type memoryScoreCache struct {
	entries map[string][]byte
	deletes int
}

func newMemoryScoreCache() *memoryScoreCache {
	return &memoryScoreCache{entries: make(map[string][]byte)}
}

func (m *memoryScoreCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, ok := m.entries[key]
	if !ok {
		return cache.ErrCacheNotFound
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryScoreCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryScoreCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	m.deletes++
	return nil
}

func TestGetHealthScoreReadsStoreOnce(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{
		food: []activity.FoodEntry{{Calories: 2000, Protein: 150, Carbs: 200, Fat: 65, Timestamp: dayAt(0, 12)}},
	}
	svc := NewService(store, config.DefaultScoring(), nil, logger.NewNop())

	score, err := svc.GetHealthScore(ctx, uuid.New(), activity.DefaultProfile(), weekFrom, weekTo)

	require.NoError(t, err)
	assert.Greater(t, score.Nutrition, 0.0)
	// One read per entry type.
	assert.Equal(t, 4, store.reads)
}

func TestGetHealthScoreInvertedRangeSkipsStore(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	svc := NewService(store, config.DefaultScoring(), nil, logger.NewNop())

	score, err := svc.GetHealthScore(ctx, uuid.New(), activity.DefaultProfile(), weekTo, weekFrom)

	require.NoError(t, err)
	assert.Equal(t, HealthScore{}, score)
	assert.Zero(t, store.reads)
}

func TestGetHealthScorePropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{err: errors.New("connection refused")}
	svc := NewService(store, config.DefaultScoring(), nil, logger.NewNop())

	_, err := svc.GetHealthScore(ctx, uuid.New(), activity.DefaultProfile(), weekFrom, weekTo)

	assert.Error(t, err)
}

func TestGetHealthScoreServesRepeatCallsFromCache(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{
		food: []activity.FoodEntry{{Calories: 2000, Protein: 150, Carbs: 200, Fat: 65, Timestamp: dayAt(0, 12)}},
	}
	scores := newMemoryScoreCache()
	svc := NewService(store, config.DefaultScoring(), scores, logger.NewNop())
	userID := uuid.New()

	first, err := svc.GetHealthScore(ctx, userID, activity.DefaultProfile(), weekFrom, weekTo)
	require.NoError(t, err)
	require.Equal(t, 4, store.reads)

	second, err := svc.GetHealthScore(ctx, userID, activity.DefaultProfile(), weekFrom, weekTo)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// The second call never touches the store.
	assert.Equal(t, 4, store.reads)
}

func TestGetHealthScoreDropsUnreadableCacheEntry(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	scores := newMemoryScoreCache()
	svc := NewService(store, config.DefaultScoring(), scores, logger.NewNop())
	userID := uuid.New()

	key := scoreKey(userID, weekFrom, weekTo)
	scores.entries[key] = []byte("{not json")

	_, err := svc.GetHealthScore(ctx, userID, activity.DefaultProfile(), weekFrom, weekTo)

	require.NoError(t, err)
	assert.Equal(t, 1, scores.deletes)
	assert.Equal(t, 4, store.reads)
	// The recomputed score replaces the bad entry.
	var replaced HealthScore
	assert.NoError(t, json.Unmarshal(scores.entries[key], &replaced))
}

func TestGetTrendsReturnsEveryMetric(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	svc := NewService(store, config.DefaultScoring(), nil, logger.NewNop())

	trends, err := svc.GetTrends(ctx, uuid.New(), activity.DefaultProfile(), weekTo)

	require.NoError(t, err)
	assert.Len(t, trends, len(Metrics))
}

func TestGetInsightsUsesPreviousScoreForAchievements(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := &stubStore{}
	svc := NewService(store, config.DefaultScoring(), nil, logger.NewNop())

	// Establish a low previous computation.
	_, err := svc.GetHealthScore(ctx, userID, activity.DefaultProfile(), weekFrom, weekTo)
	require.NoError(t, err)

	// Now fill the store so every sub-score crosses the bar.
	for day := 0; day < 7; day++ {
		store.food = append(store.food, activity.FoodEntry{
			Calories: 2000, Protein: 150, Carbs: 200, Fat: 65, Timestamp: dayAt(day, 12),
		})
		store.water = append(store.water, activity.WaterEntry{
			Milliliters: 2500, Timestamp: dayAt(day, 9),
		})
		store.exercise = append(store.exercise, activity.ExerciseEntry{
			Minutes: 30, Timestamp: dayAt(day, 18),
		})
		end := dayAt(day, 20)
		store.fasting = append(store.fasting, activity.FastingSession{
			StartedAt: dayAt(day, 1), EndedAt: &end, TargetHours: 16,
		})
	}

	insights, err := svc.GetInsights(ctx, userID, activity.DefaultProfile(), nil, weekTo)

	require.NoError(t, err)
	var achievement *SmartInsight
	for i := range insights {
		if insights[i].Category == InsightAchievement {
			achievement = &insights[i]
		}
	}
	assert.NotNil(t, achievement)
}

func TestGetInsightsFirstRunHasNoAchievement(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	for day := 0; day < 7; day++ {
		store.food = append(store.food, activity.FoodEntry{
			Calories: 2000, Protein: 150, Carbs: 200, Fat: 65, Timestamp: dayAt(day, 12),
		})
	}
	svc := NewService(store, config.DefaultScoring(), nil, logger.NewNop())

	insights, err := svc.GetInsights(ctx, uuid.New(), activity.DefaultProfile(), nil, weekTo)

	require.NoError(t, err)
	for _, in := range insights {
		assert.NotEqual(t, InsightAchievement, in.Category)
	}
}
