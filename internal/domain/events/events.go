package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Progression event types emitted by the engine after mutations.
const (
	EventActivityRecorded   = "activity_recorded"
	EventLevelUp            = "level_up"
	EventBadgeUnlocked      = "badge_unlocked"
	EventChallengeCompleted = "challenge_completed"
	EventStreakBroken       = "streak_broken"
	EventRewardPurchased    = "reward_purchased"
)

// ProgressionEvent is delivered to the notification layer after each
// mutating operation. Delivery semantics are the subscriber's concern.
type ProgressionEvent struct {
	EventType string                 `json:"event_type"`
	UserID    uuid.UUID              `json:"user_id"`
	EntityID  string                 `json:"entity_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Publisher is the event notification sink consumed by the progression
// engine. The redis implementation lives in infrastructure/cache.
type Publisher interface {
	PublishProgressionEvent(ctx context.Context, event *ProgressionEvent) error
}

// NopPublisher discards events, used in tests and offline tooling.
type NopPublisher struct{}

func (NopPublisher) PublishProgressionEvent(ctx context.Context, event *ProgressionEvent) error {
	return nil
}

// Recorder keeps published events in memory so tests can assert on them.
type Recorder struct {
	Events []ProgressionEvent
}

func (r *Recorder) PublishProgressionEvent(ctx context.Context, event *ProgressionEvent) error {
	r.Events = append(r.Events, *event)
	return nil
}

// ByType returns the recorded events matching the given type.
func (r *Recorder) ByType(eventType string) []ProgressionEvent {
	var out []ProgressionEvent
	for _, e := range r.Events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}
