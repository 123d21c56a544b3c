package gamification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fitterhq/fitter-backend/internal/domain/events"
	"github.com/fitterhq/fitter-backend/pkg/config"
	"github.com/fitterhq/fitter-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownReward = errors.New("reward not in catalog")
)

// Engine owns the mutable progression state of a single user: XP, points,
// streaks, badges, challenges and rewards. Every exported method takes the
// engine mutex, so concurrent invocations for the same user serialize and
// the mutation order within one event is fixed: XP award, streak update,
// badge re-evaluation, challenge progress.
type Engine struct {
	mu sync.Mutex

	userID     uuid.UUID
	cfg        config.GamificationConfig
	curve      levelCurve
	totalXP    int64
	points     int64
	streaks    map[StreakType]*Streak
	badges     []Badge
	challenges []Challenge
	rewards    []Reward
	counters   Counters

	rules     map[string]badgeRule
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewEngine creates an engine with the catalog defaults for a new user.
func NewEngine(userID uuid.UUID, cfg config.GamificationConfig, publisher events.Publisher, log *logger.Logger) *Engine {
	streaks := make(map[StreakType]*Streak, len(StreakTypes))
	for _, t := range StreakTypes {
		streaks[t] = &Streak{Type: t}
	}

	e := &Engine{
		userID:    userID,
		cfg:       cfg,
		curve:     newLevelCurve(cfg.LevelCurveBase),
		streaks:   streaks,
		badges:    catalogBadges(),
		rewards:   DefaultRewards(),
		rules:     badgeRules(),
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
	e.rotateChallengesLocked()
	e.refreshRewardUnlocksLocked()
	return e
}

// NewEngineFromState restores an engine from persisted state.
func NewEngineFromState(userID uuid.UUID, cfg config.GamificationConfig, state EngineState, publisher events.Publisher, log *logger.Logger) *Engine {
	e := NewEngine(userID, cfg, publisher, log)
	e.totalXP = state.TotalXP
	e.points = state.Points
	e.counters = state.Counters
	for t, s := range state.Streaks {
		if s != nil {
			e.streaks[t] = s
		}
	}
	if len(state.Badges) > 0 {
		e.badges = state.Badges
	}
	if len(state.Challenges) > 0 {
		e.challenges = state.Challenges
	}
	if len(state.Rewards) > 0 {
		e.rewards = state.Rewards
	}
	e.refreshRewardUnlocksLocked()
	return e
}

// SetClock overrides the engine clock, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// AwardXP adds XP for a named reason. Negative amounts are ignored.
func (e *Engine) AwardXP(ctx context.Context, amount int64, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.awardXPLocked(ctx, amount, reason)
}

// RecordActivity processes one logged activity. The mutation order is
// fixed so that badge rules depending on streaks see the just-updated
// streak value within the same logical transaction.
func (e *Engine) RecordActivity(ctx context.Context, ev ActivityEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.now()
	}

	e.applyCounters(ev)
	e.awardXPLocked(ctx, e.xpFor(ev), string(ev.Kind)+"_logged")
	e.points += int64(e.cfg.PointsPerEvent)
	e.updateStreakLocked(ctx, ev)
	e.evaluateBadgesLocked(ctx)
	e.updateChallengesLocked(ctx, ev)

	e.publish(ctx, &events.ProgressionEvent{
		EventType: events.EventActivityRecorded,
		UserID:    e.userID,
		Timestamp: e.now().UTC(),
		Details: map[string]interface{}{
			"kind": string(ev.Kind),
		},
	})
}

// PurchaseReward attempts to buy a catalog reward. It returns false with a
// nil error on insufficient points, a locked reward, or a repeat purchase;
// the point balance is untouched on every failure path. An ID outside the
// catalog is a contract violation and returns ErrUnknownReward.
func (e *Engine) PurchaseReward(ctx context.Context, rewardID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.rewards {
		if e.rewards[i].ID == rewardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrUnknownReward
	}

	r := &e.rewards[idx]
	if r.IsPurchased || !r.IsUnlocked || e.points < r.Cost {
		return false, nil
	}

	e.points -= r.Cost
	r.IsPurchased = true

	e.publish(ctx, &events.ProgressionEvent{
		EventType: events.EventRewardPurchased,
		UserID:    e.userID,
		EntityID:  r.ID,
		Timestamp: e.now().UTC(),
		Details: map[string]interface{}{
			"cost":             r.Cost,
			"remaining_points": e.points,
		},
	})
	return true, nil
}

// TotalXP returns the accumulated XP.
func (e *Engine) TotalXP() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalXP
}

// Points returns the spendable point balance.
func (e *Engine) Points() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.points
}

// Level returns the current level band.
func (e *Engine) Level() UserLevel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.curve.UserLevelFor(e.totalXP)
}

// NextLevelProgress returns the position within the current level band as
// a percentage in [0,100].
func (e *Engine) NextLevelProgress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.curve.Progress(e.totalXP)
}

// Streaks returns the streak list after applying the skipped-day reset.
func (e *Engine) Streaks(ctx context.Context) []Streak {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshStreaksLocked(ctx)

	out := make([]Streak, 0, len(StreakTypes))
	for _, t := range StreakTypes {
		out = append(out, *e.streaks[t])
	}
	return out
}

// Badges returns a copy of the badge list.
func (e *Engine) Badges() []Badge {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Badge, len(e.badges))
	copy(out, e.badges)
	return out
}

// Challenges returns a copy of the challenge list after rotating in the
// current week's set.
func (e *Engine) Challenges() []Challenge {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rotateChallengesLocked()
	out := make([]Challenge, len(e.challenges))
	copy(out, e.challenges)
	return out
}

// Rewards returns a copy of the reward list with unlock gates refreshed.
func (e *Engine) Rewards() []Reward {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshRewardUnlocksLocked()
	out := make([]Reward, len(e.rewards))
	copy(out, e.rewards)
	return out
}

// ExportState snapshots the engine for persistence.
func (e *Engine) ExportState() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()

	streaks := make(map[StreakType]*Streak, len(e.streaks))
	for t, s := range e.streaks {
		cp := *s
		streaks[t] = &cp
	}
	badges := make([]Badge, len(e.badges))
	copy(badges, e.badges)
	challenges := make([]Challenge, len(e.challenges))
	copy(challenges, e.challenges)
	rewards := make([]Reward, len(e.rewards))
	copy(rewards, e.rewards)

	return EngineState{
		TotalXP:    e.totalXP,
		Points:     e.points,
		Streaks:    streaks,
		Badges:     badges,
		Challenges: challenges,
		Rewards:    rewards,
		Counters:   e.counters,
	}
}

func (e *Engine) awardXPLocked(ctx context.Context, amount int64, reason string) {
	if amount <= 0 {
		return
	}

	prevLevel := e.curve.LevelForXP(e.totalXP)
	e.totalXP += amount
	newLevel := e.curve.LevelForXP(e.totalXP)

	if newLevel > prevLevel {
		e.refreshRewardUnlocksLocked()
		e.log.Info("Level up",
			zap.String("user_id", e.userID.String()),
			zap.Int("level", newLevel))
		e.publish(ctx, &events.ProgressionEvent{
			EventType: events.EventLevelUp,
			UserID:    e.userID,
			Timestamp: e.now().UTC(),
			Details: map[string]interface{}{
				"level": newLevel,
				"title": titleForLevel(newLevel),
			},
		})
	}
}

func (e *Engine) xpFor(ev ActivityEvent) int64 {
	switch ev.Kind {
	case ActivityFood:
		return int64(e.cfg.XPFoodLogged)
	case ActivityExercise:
		return int64(e.cfg.XPExerciseDone)
	case ActivityWater:
		return int64(e.cfg.XPWaterLogged)
	case ActivityFasting:
		if ev.FastCompleted {
			return int64(e.cfg.XPFastCompleted)
		}
		return int64(e.cfg.XPFastAttempted)
	default:
		return 0
	}
}

func (e *Engine) applyCounters(ev ActivityEvent) {
	switch ev.Kind {
	case ActivityFood:
		e.counters.FoodEntries++
	case ActivityExercise:
		e.counters.ExerciseSessions++
		if ev.Minutes > 0 {
			e.counters.ExerciseMinutes += ev.Minutes
		}
	case ActivityWater:
		e.counters.WaterEntries++
	case ActivityFasting:
		e.counters.FastsAttempted++
		if ev.FastCompleted {
			e.counters.FastsCompleted++
		}
		if ev.FastHours >= 18 {
			e.counters.KetosisFasts++
		}
	}
}

// updateStreakLocked advances the category streak for the event's calendar
// day. A same-day repeat is a no-op; a one-day gap restarts at 1 after the
// broken streak is recorded.
func (e *Engine) updateStreakLocked(ctx context.Context, ev ActivityEvent) {
	s, ok := e.streaks[StreakType(ev.Kind)]
	if !ok {
		return
	}

	day := dayKey(ev.Timestamp)
	switch {
	case s.LastDay == day:
		// Already counted today
		s.IsActive = true
		return
	case s.LastDay == dayKey(ev.Timestamp.AddDate(0, 0, -1)):
		s.Current++
	default:
		if s.Current > 0 {
			e.publishStreakBroken(ctx, s)
		}
		s.Current = 1
	}
	s.LastDay = day
	s.IsActive = true
	if s.Current > s.Best {
		s.Best = s.Current
	}
}

// refreshStreaksLocked applies the skipped-day reset: a streak whose last
// qualifying day is before yesterday drops to 0 and goes inactive.
func (e *Engine) refreshStreaksLocked(ctx context.Context) {
	today := dayKey(e.now())
	yesterday := dayKey(e.now().AddDate(0, 0, -1))

	for _, s := range e.streaks {
		if s.Current == 0 || s.LastDay == today || s.LastDay == yesterday {
			continue
		}
		e.publishStreakBroken(ctx, s)
		s.Current = 0
		s.IsActive = false
	}
}

func (e *Engine) publishStreakBroken(ctx context.Context, s *Streak) {
	e.publish(ctx, &events.ProgressionEvent{
		EventType: events.EventStreakBroken,
		UserID:    e.userID,
		EntityID:  string(s.Type),
		Timestamp: e.now().UTC(),
		Details: map[string]interface{}{
			"broken_streak": s.Current,
			"best":          s.Best,
		},
	})
}

// evaluateBadgesLocked recomputes every locked badge's progress from the
// cumulative counters. Unlocking is irreversible and emits exactly one
// event per transition.
func (e *Engine) evaluateBadgesLocked(ctx context.Context) {
	level := e.curve.LevelForXP(e.totalXP)
	for i := range e.badges {
		b := &e.badges[i]
		if b.IsUnlocked {
			continue
		}
		rule, ok := e.rules[b.ID]
		if !ok {
			continue
		}
		b.Progress = rule(e.counters, e.streaks, level)
		if b.Progress >= 100 {
			b.Progress = 100
			b.IsUnlocked = true
			e.log.Info("Badge unlocked",
				zap.String("user_id", e.userID.String()),
				zap.String("badge", b.ID))
			e.publish(ctx, &events.ProgressionEvent{
				EventType: events.EventBadgeUnlocked,
				UserID:    e.userID,
				EntityID:  b.ID,
				Timestamp: e.now().UTC(),
				Details: map[string]interface{}{
					"name":   b.Name,
					"rarity": string(b.Rarity),
				},
			})
		}
	}
}

// updateChallengesLocked advances active challenges by the event's
// contribution. Completion awards XP exactly once; expiry deactivates
// without awarding.
func (e *Engine) updateChallengesLocked(ctx context.Context, ev ActivityEvent) {
	e.rotateChallengesLocked()

	day := dayKey(ev.Timestamp)
	completed := false

	for i := range e.challenges {
		c := &e.challenges[i]
		if c.IsCompleted || !c.IsActive {
			continue
		}

		contrib := contribution(c.Type, ev)
		if contrib <= 0 {
			continue
		}
		if c.Type == ChallengeConsistency {
			if c.LastDay == day {
				continue
			}
			c.LastDay = day
		}

		c.Progress += contrib
		if c.Progress >= c.Target {
			c.IsCompleted = true
			completed = true
			e.counters.ChallengesCompleted++
			e.awardXPLocked(ctx, c.XPReward, "challenge_completed")
			e.points += int64(e.cfg.ChallengeBonusPoints)
			e.publish(ctx, &events.ProgressionEvent{
				EventType: events.EventChallengeCompleted,
				UserID:    e.userID,
				EntityID:  c.ID,
				Timestamp: e.now().UTC(),
				Details: map[string]interface{}{
					"name":      c.Name,
					"xp_reward": c.XPReward,
				},
			})
		}
	}

	if completed {
		// A completion can push a challenge-counting badge over the line
		e.evaluateBadgesLocked(ctx)
	}
}

// rotateChallengesLocked deactivates instances past their expiry, drops
// them after a week of history, and issues the current week's set when
// its IDs are not already present. Instances whose start lies in the
// future are dropped outright, which keeps a rewound clock from leaving
// two overlapping sets behind.
func (e *Engine) rotateChallengesLocked() {
	now := e.now()
	kept := e.challenges[:0]
	existing := make(map[string]bool, len(e.challenges))
	for _, c := range e.challenges {
		if now.Before(c.StartsAt) {
			continue
		}
		if !now.Before(c.ExpiresAt) {
			if now.After(c.ExpiresAt.AddDate(0, 0, 7)) {
				continue
			}
			c.IsActive = false
		}
		kept = append(kept, c)
		existing[c.ID] = true
	}
	e.challenges = kept

	for _, c := range DefaultChallenges(now) {
		if !existing[c.ID] {
			e.challenges = append(e.challenges, c)
		}
	}
}

func (e *Engine) refreshRewardUnlocksLocked() {
	level := e.curve.LevelForXP(e.totalXP)
	for i := range e.rewards {
		if !e.rewards[i].IsUnlocked && level >= e.rewards[i].MinLevel {
			e.rewards[i].IsUnlocked = true
		}
	}
}

func (e *Engine) publish(ctx context.Context, event *events.ProgressionEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishProgressionEvent(ctx, event); err != nil {
		e.log.Error("Failed to publish progression event",
			zap.String("event_type", event.EventType),
			zap.Error(err))
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
