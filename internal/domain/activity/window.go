package activity

import (
	"time"
)

// Window is an immutable snapshot of logged activity inside [From, To).
// An inverted range is treated as an empty window rather than an error.
type Window struct {
	From     time.Time
	To       time.Time
	Food     []FoodEntry
	Exercise []ExerciseEntry
	Water    []WaterEntry
	Fasting  []FastingSession
}

// NewWindow builds a snapshot over [from, to). Entries outside the range are
// dropped so callers can hand over whole collections.
func NewWindow(from, to time.Time, food []FoodEntry, exercise []ExerciseEntry, water []WaterEntry, fasting []FastingSession) Window {
	w := Window{From: from, To: to}
	if from.After(to) {
		// Inverted range, keep the empty window
		return w
	}
	for _, e := range food {
		if inRange(e.Timestamp, from, to) {
			w.Food = append(w.Food, e)
		}
	}
	for _, e := range exercise {
		if inRange(e.Timestamp, from, to) {
			w.Exercise = append(w.Exercise, e)
		}
	}
	for _, e := range water {
		if inRange(e.Timestamp, from, to) {
			w.Water = append(w.Water, e)
		}
	}
	for _, s := range fasting {
		if inRange(s.StartedAt, from, to) {
			w.Fasting = append(w.Fasting, s)
		}
	}
	return w
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// IsEmpty reports whether the window holds no activity at all.
func (w Window) IsEmpty() bool {
	return len(w.Food) == 0 && len(w.Exercise) == 0 && len(w.Water) == 0 && len(w.Fasting) == 0
}

// Days returns the number of calendar days spanned by the window, never
// below 1 so it is always safe as a divisor.
func (w Window) Days() int {
	if w.From.After(w.To) {
		return 1
	}
	days := int(w.To.Sub(w.From).Hours() / 24)
	if w.To.Sub(w.From)%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// DayKey is the UTC calendar date used to bucket entries into days.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
