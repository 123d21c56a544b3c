package gamification

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// StreakType is the activity category a streak counts.
type StreakType string

const (
	StreakFood     StreakType = "food"
	StreakExercise StreakType = "exercise"
	StreakWater    StreakType = "water"
	StreakFasting  StreakType = "fasting"
)

// StreakTypes lists every tracked category.
var StreakTypes = []StreakType{StreakFood, StreakExercise, StreakWater, StreakFasting}

// Streak is a consecutive-day counter for one category. Best is a monotonic
// high-water mark; Current resets to 0 when a full calendar day passes
// without qualifying activity. LastDay is the UTC date (2006-01-02) of the
// last qualifying day.
type Streak struct {
	Type     StreakType `json:"type"`
	Current  int        `json:"current"`
	Best     int        `json:"best"`
	IsActive bool       `json:"is_active"`
	LastDay  string     `json:"last_day,omitempty"`
}

// BadgeRarity grades badges for display.
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is one unlockable achievement. Progress is recomputed from the
// cumulative counters on every engine run; the unlock is one-way.
type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Rarity      BadgeRarity `json:"rarity"`
	IconName    string      `json:"icon_name"`
	IsUnlocked  bool        `json:"is_unlocked"`
	Progress    float64     `json:"progress"`
	Requirement string      `json:"requirement"`
}

// ChallengeType selects which activity contributes to a challenge.
type ChallengeType string

const (
	ChallengeSteps       ChallengeType = "steps"
	ChallengeExercise    ChallengeType = "exercise"
	ChallengeFasting     ChallengeType = "fasting"
	ChallengeHydration   ChallengeType = "hydration"
	ChallengeCalories    ChallengeType = "calories"
	ChallengeConsistency ChallengeType = "consistency"
)

// Challenge is a time-boxed goal. Progress may exceed Target internally;
// ProgressPercentage clamps the displayed value. XP is awarded exactly once
// on completion and never after expiry.
type Challenge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        ChallengeType `json:"type"`
	Target      float64       `json:"target"`
	Progress    float64       `json:"progress"`
	XPReward    int64         `json:"xp_reward"`
	StartsAt    time.Time     `json:"starts_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	IsActive    bool          `json:"is_active"`
	IsCompleted bool          `json:"is_completed"`
	// LastDay dedupes consistency contributions to one per calendar day
	LastDay string `json:"last_day,omitempty"`
}

// ProgressPercentage is the display progress, clamped to [0,100].
func (c Challenge) ProgressPercentage() float64 {
	if c.Target <= 0 {
		return 0
	}
	pct := 100 * c.Progress / c.Target
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Reward is a purchasable item gated by level. Purchase is one-way and
// deducts points atomically.
type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	Type        string `json:"type"`
	MinLevel    int    `json:"min_level"`
	IsUnlocked  bool   `json:"is_unlocked"`
	IsPurchased bool   `json:"is_purchased"`
}

// UserLevel is the level band derived from total XP. Level is a pure
// function of XP and never set directly.
type UserLevel struct {
	Level      int      `json:"level"`
	Title      string   `json:"title"`
	XPProgress int64    `json:"xp_progress"`
	XPRequired int64    `json:"xp_required"`
	Benefits   []string `json:"benefits"`
}

// ActivityKind tags the logged activity behind an event.
type ActivityKind string

const (
	ActivityFood     ActivityKind = "food"
	ActivityExercise ActivityKind = "exercise"
	ActivityWater    ActivityKind = "water"
	ActivityFasting  ActivityKind = "fasting"
)

// ActivityEvent is one logged activity handed to the progression engine.
// Only the fields matching Kind are meaningful; negative magnitudes are
// clamped to zero during processing.
type ActivityEvent struct {
	Kind          ActivityKind `json:"kind"`
	Timestamp     time.Time    `json:"timestamp"`
	Calories      float64      `json:"calories,omitempty"`
	Minutes       float64      `json:"minutes,omitempty"`
	Steps         int          `json:"steps,omitempty"`
	Milliliters   float64      `json:"milliliters,omitempty"`
	FastHours     float64      `json:"fast_hours,omitempty"`
	FastCompleted bool         `json:"fast_completed,omitempty"`
}

// Counters are the cumulative totals badge progress is recomputed from.
type Counters struct {
	FoodEntries         int64   `json:"food_entries"`
	ExerciseSessions    int64   `json:"exercise_sessions"`
	ExerciseMinutes     float64 `json:"exercise_minutes"`
	WaterEntries        int64   `json:"water_entries"`
	FastsAttempted      int64   `json:"fasts_attempted"`
	FastsCompleted      int64   `json:"fasts_completed"`
	KetosisFasts        int64   `json:"ketosis_fasts"`
	ChallengesCompleted int64   `json:"challenges_completed"`
}

// EngineState is the serializable progression state of one user.
type EngineState struct {
	TotalXP    int64                  `json:"total_xp"`
	Points     int64                  `json:"points"`
	Streaks    map[StreakType]*Streak `json:"streaks"`
	Badges     []Badge                `json:"badges"`
	Challenges []Challenge            `json:"challenges"`
	Rewards    []Reward               `json:"rewards"`
	Counters   Counters               `json:"counters"`
}

// ProgressionRecord is the persisted form of EngineState.
type ProgressionRecord struct {
	UserID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	TotalXP        int64          `gorm:"not null;default:0"`
	Points         int64          `gorm:"not null;default:0"`
	Streaks        datatypes.JSON `gorm:"type:jsonb"`
	Badges         datatypes.JSON `gorm:"type:jsonb"`
	Challenges     datatypes.JSON `gorm:"type:jsonb"`
	Rewards        datatypes.JSON `gorm:"type:jsonb"`
	Counters       datatypes.JSON `gorm:"type:jsonb"`
	UnlockedBadges pq.StringArray `gorm:"type:text[]"`
	UpdatedAt      time.Time      `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

// TableName specifies the table name for progression records
func (ProgressionRecord) TableName() string {
	return "progression_records"
}

// XPEvent is the append-only ledger of XP awards.
type XPEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"size:100;not null" json:"reason"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp" json:"created_at"`
}

// TableName specifies the table name for XP events
func (XPEvent) TableName() string {
	return "xp_events"
}
