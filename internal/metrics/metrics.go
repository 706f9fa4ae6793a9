// Package metrics exports engine activity as Prometheus counters.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lifeforge/internal/engine"
)

var EventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeforge",
	Subsystem: "engine",
	Name:      "events_applied_total",
	Help:      "Events committed, by kind.",
}, []string{"kind"})

var EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeforge",
	Subsystem: "engine",
	Name:      "events_rejected_total",
	Help:      "Events rejected, by kind and error category.",
}, []string{"kind", "reason"})

var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeforge",
	Subsystem: "progression",
	Name:      "xp_awarded_total",
	Help:      "XP granted, split into direct and achievement XP.",
}, []string{"source"})

var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifeforge",
	Subsystem: "progression",
	Name:      "levels_gained_total",
	Help:      "Levels gained across all characters.",
})

var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeforge",
	Subsystem: "progression",
	Name:      "achievements_unlocked_total",
	Help:      "Achievement unlocks, by achievement id.",
}, []string{"achievement"})

// Recorder feeds the package counters. The zero value is ready to use.
type Recorder struct{}

func NewRecorder() Recorder { return Recorder{} }

func (Recorder) EventApplied(kind string, out engine.Outcome) {
	EventsApplied.WithLabelValues(kind).Inc()
	if out.DirectXP > 0 {
		XPAwarded.WithLabelValues("direct").Add(float64(out.DirectXP))
	}
	if out.AchievementXP > 0 {
		XPAwarded.WithLabelValues("achievement").Add(float64(out.AchievementXP))
	}
	if n := out.LevelsGained(); n > 0 {
		LevelUps.Add(float64(n))
	}
	for _, u := range out.AchievementsUnlocked {
		AchievementsUnlocked.WithLabelValues(u.AchievementID).Inc()
	}
}

func (Recorder) EventRejected(kind string, err error) {
	EventsRejected.WithLabelValues(kind, Reason(err)).Inc()
}

// Reason maps an engine error to a low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, engine.ErrValidation):
		return "validation"
	case errors.Is(err, engine.ErrNotFound):
		return "not_found"
	case errors.Is(err, engine.ErrIncompleteObjectives):
		return "incomplete"
	case errors.Is(err, engine.ErrInvalidTransition):
		return "transition"
	case errors.Is(err, engine.ErrLocked):
		return "locked"
	default:
		return "internal"
	}
}
