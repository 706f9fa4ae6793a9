package engine

import (
	"errors"
	"testing"
	"time"
)

// tolerant matches the shipped configuration default.
var tolerant = StreakPolicy{EarlyTolerancePercent: 25}

func dailyItem(t *testing.T) RecurringItem {
	t.Helper()
	it, err := NewRecurringItem(RecurringDraft{Name: "Drink water", Kind: RecurringNeed, CadenceHours: CadenceDaily, XPReward: 10})
	if err != nil {
		t.Fatalf("NewRecurringItem: %v", err)
	}
	return it
}

func TestRecordCompletionStreaks(t *testing.T) {
	it := dailyItem(t)
	policy := tolerant

	it, ch, err := RecordCompletion(it, t0, policy)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if !ch.FirstEver || it.StreakCount != 1 || it.TotalCompletions != 1 {
		t.Fatalf("first completion item=%+v change=%+v", it, ch)
	}

	// Too soon: 10h < 18h minimum separation.
	_, _, err = RecordCompletion(it, t0.Add(10*time.Hour), policy)
	if !errors.Is(err, ErrAlreadySatisfied) || !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("early completion err=%v, want already satisfied", err)
	}

	it, ch, err = RecordCompletion(it, t0.Add(20*time.Hour), policy)
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if it.StreakCount != 2 || ch.Broken {
		t.Fatalf("second completion streak=%d broken=%v, want 2 unbroken", it.StreakCount, ch.Broken)
	}

	// 30h gap breaks the streak but best survives.
	it, ch, err = RecordCompletion(it, t0.Add(50*time.Hour), policy)
	if err != nil {
		t.Fatalf("late completion: %v", err)
	}
	if !ch.Broken || it.StreakCount != 1 || it.BestStreak != 2 || it.TotalCompletions != 3 {
		t.Fatalf("late completion item=%+v change=%+v", it, ch)
	}
}

func TestStrictPolicyRejectsEarlyCompletion(t *testing.T) {
	it := dailyItem(t)
	it, _, _ = RecordCompletion(it, t0, StreakPolicy{})
	if _, _, err := RecordCompletion(it, t0.Add(20*time.Hour), StreakPolicy{}); !errors.Is(err, ErrAlreadySatisfied) {
		t.Fatalf("err=%v, want already satisfied with zero tolerance", err)
	}
	if _, _, err := RecordCompletion(it, t0.Add(24*time.Hour), StreakPolicy{}); err != nil {
		t.Fatalf("exactly one cadence later: %v", err)
	}
}

func TestOverdueAndEffectiveStreak(t *testing.T) {
	it := dailyItem(t)
	if !IsOverdue(it, t0) {
		t.Fatalf("never-completed item should be overdue")
	}
	if NextDue(it) != nil {
		t.Fatalf("never-completed item has no next due")
	}

	it, _, _ = RecordCompletion(it, t0, tolerant)
	if IsOverdue(it, t0.Add(23*time.Hour)) {
		t.Fatalf("item overdue before cadence elapsed")
	}
	if got := EffectiveStreak(it, t0.Add(23*time.Hour)); got != 1 {
		t.Fatalf("EffectiveStreak=%d, want 1", got)
	}
	if !IsOverdue(it, t0.Add(25*time.Hour)) {
		t.Fatalf("item not overdue after cadence")
	}
	if got := EffectiveStreak(it, t0.Add(25*time.Hour)); got != 0 {
		t.Fatalf("EffectiveStreak after lapse=%d, want 0", got)
	}
	if due := NextDue(it); due == nil || !due.Equal(t0.Add(24*time.Hour)) {
		t.Fatalf("NextDue=%v, want t0+24h", due)
	}
}

func TestDailyStreakBonus(t *testing.T) {
	cases := []struct {
		base, streak, want int
	}{
		{50, 1, 0},
		{50, 3, 10},
		{50, 11, 50},
		{50, 40, 50},
		{0, 5, 0},
	}
	for _, tc := range cases {
		if got := DailyStreakBonus(tc.base, tc.streak); got != tc.want {
			t.Fatalf("DailyStreakBonus(%d,%d)=%d, want %d", tc.base, tc.streak, got, tc.want)
		}
	}
}

func TestParseCadence(t *testing.T) {
	good := map[string]int{"daily": 24, "Weekly": 168, "monthly": 720, "36h": 36, "12": 12}
	for in, want := range good {
		got, err := ParseCadence(in)
		if err != nil || got != want {
			t.Fatalf("ParseCadence(%q)=%d,%v want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "0", "-3h", "soon"} {
		if _, err := ParseCadence(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("ParseCadence(%q) err=%v, want validation", in, err)
		}
	}
}

func TestNewRecurringItemValidation(t *testing.T) {
	bad := []RecurringDraft{
		{Name: "", Kind: RecurringNeed, CadenceHours: 24},
		{Name: "x", Kind: "chore", CadenceHours: 24},
		{Name: "x", Kind: RecurringDaily, CadenceHours: 0},
		{Name: "x", Kind: RecurringDaily, CadenceHours: 24, XPReward: -1},
	}
	for i, d := range bad {
		if _, err := NewRecurringItem(d); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d err=%v, want validation", i, err)
		}
	}
}
