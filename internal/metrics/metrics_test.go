package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"lifeforge/internal/engine"
)

func TestRecorderCountsOutcome(t *testing.T) {
	r := NewRecorder()
	applied := testutil.ToFloat64(EventsApplied.WithLabelValues("quest"))
	direct := testutil.ToFloat64(XPAwarded.WithLabelValues("direct"))
	bonus := testutil.ToFloat64(XPAwarded.WithLabelValues("achievement"))
	levels := testutil.ToFloat64(LevelUps)
	unlocks := testutil.ToFloat64(AchievementsUnlocked.WithLabelValues("first_quest"))

	r.EventApplied("quest", engine.Outcome{
		DirectXP:             200,
		AchievementXP:        50,
		LevelBefore:          1,
		LevelAfter:           3,
		AchievementsUnlocked: []engine.AchievementUnlock{{AchievementID: "first_quest", XP: 50}},
	})

	if got := testutil.ToFloat64(EventsApplied.WithLabelValues("quest")) - applied; got != 1 {
		t.Errorf("events applied delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(XPAwarded.WithLabelValues("direct")) - direct; got != 200 {
		t.Errorf("direct xp delta = %v, want 200", got)
	}
	if got := testutil.ToFloat64(XPAwarded.WithLabelValues("achievement")) - bonus; got != 50 {
		t.Errorf("achievement xp delta = %v, want 50", got)
	}
	if got := testutil.ToFloat64(LevelUps) - levels; got != 2 {
		t.Errorf("level delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(AchievementsUnlocked.WithLabelValues("first_quest")) - unlocks; got != 1 {
		t.Errorf("unlock delta = %v, want 1", got)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{engine.ValidationError{Field: "x", Reason: "bad"}, "validation"},
		{fmt.Errorf("wrap: %w", engine.NotFoundError{Entity: "quest", ID: "q"}), "not_found"},
		{engine.IncompleteObjectivesError{QuestID: "q"}, "incomplete"},
		{engine.TransitionError{Entity: "quest", Rule: engine.ErrAlreadyCompleted}, "transition"},
		{engine.GateError{Feature: "x", RequiredLevel: 5}, "locked"},
		{errors.New("disk full"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Reason(tt.err); got != tt.want {
				t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRecorderRejected(t *testing.T) {
	before := testutil.ToFloat64(EventsRejected.WithLabelValues("need", "transition"))
	NewRecorder().EventRejected("need", engine.TransitionError{Entity: "need", Rule: engine.ErrAlreadySatisfied})
	if got := testutil.ToFloat64(EventsRejected.WithLabelValues("need", "transition")) - before; got != 1 {
		t.Errorf("rejected delta = %v, want 1", got)
	}
}
