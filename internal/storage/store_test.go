package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lifeforge/internal/engine"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func seededState(t *testing.T) *engine.State {
	t.Helper()
	defs := []engine.AchievementDef{{
		ID: "first_steps", Name: "First Steps", Counter: engine.CounterQuestsCompleted, Required: 1, XPReward: 50,
		Rewards: []engine.Reward{engine.RewardSkillCredit{Skill: "cooking", Points: 1}},
	}}
	st, err := engine.NewState(engine.NewCharacterInput{ID: "hero", Name: "Ada", Class: engine.ClassScholar}, defs, t0)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	o := engine.NewOrchestrator(engine.StreakPolicy{EarlyTolerancePercent: 25})
	st, q, err := o.CreateQuest(st, engine.QuestDraft{
		Name:       "Tidy the desk",
		Difficulty: engine.DifficultyTrivial,
		GoldReward: 5,
		Rewards:    []engine.Reward{engine.RewardResource{Resource: engine.ResourceFocus, Amount: 5}},
		Objectives: []engine.ObjectiveDraft{
			{Text: "Clear papers"},
			{Text: "Dust the lamp", Optional: true, XPReward: 10},
		},
	}, t0)
	if err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	st, _, err = o.CompleteObjective(st, q.ID, q.Objectives[0].ID, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("CompleteObjective: %v", err)
	}
	st, need, err := o.AddRecurringItem(st, engine.RecurringDraft{Name: "Drink water", Kind: engine.RecurringNeed, CadenceHours: 24}, t0)
	if err != nil {
		t.Fatalf("AddRecurringItem: %v", err)
	}
	st, _, err = o.CompleteNeed(st, need.ID, t0.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("CompleteNeed: %v", err)
	}
	st, _, err = o.ActivateBuff(st, engine.BuffRequest{
		Name: "Pomodoro", Kind: engine.BuffFocus, DurationMinutes: 25,
		StatBoost: map[engine.Stat]int{engine.StatIntellect: 2},
	}, t0.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("ActivateBuff: %v", err)
	}
	return st
}

func TestSQLiteStoreLoadMissing(t *testing.T) {
	store := newTestStore(t)
	st, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st != nil {
		t.Fatalf("expected nil state for unknown character, got %+v", st)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	want := seededState(t)

	if err := store.Save(ctx, "hero", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "hero")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatalf("expected state")
	}

	if got.Character.TotalXP != want.Character.TotalXP || got.Character.Gold != want.Character.Gold {
		t.Fatalf("character xp/gold = %d/%d, want %d/%d",
			got.Character.TotalXP, got.Character.Gold, want.Character.TotalXP, want.Character.Gold)
	}
	if got.Character.Class != engine.ClassScholar {
		t.Fatalf("class=%q", got.Character.Class)
	}
	if got.Character.SkillCredits["cooking"] != want.Character.SkillCredits["cooking"] {
		t.Fatalf("skill credits = %v, want %v", got.Character.SkillCredits, want.Character.SkillCredits)
	}
	if got.Tally != want.Tally {
		t.Fatalf("tally = %+v, want %+v", got.Tally, want.Tally)
	}
	if len(got.Pools) != len(engine.ResourceKinds) {
		t.Fatalf("pools=%d, want %d", len(got.Pools), len(engine.ResourceKinds))
	}
	for k, p := range want.Pools {
		g := got.Pools[k]
		if g.Current != p.Current || g.Max != p.Max || g.RegenRatePerHour != p.RegenRatePerHour || !g.LastUpdated.Equal(p.LastUpdated) {
			t.Fatalf("pool %s = %+v, want %+v", k, g, p)
		}
	}

	if len(got.Quests) != 1 {
		t.Fatalf("quests=%d, want 1", len(got.Quests))
	}
	gq, wq := got.Quests[0], want.Quests[0]
	if gq.Status != wq.Status || gq.Status != engine.QuestCompleted {
		t.Fatalf("quest status=%q, want completed", gq.Status)
	}
	if gq.CompletedAt == nil || !gq.CompletedAt.Equal(*wq.CompletedAt) {
		t.Fatalf("quest completed_at=%v, want %v", gq.CompletedAt, wq.CompletedAt)
	}
	if len(gq.Rewards) != 1 || gq.Rewards[0] != wq.Rewards[0] {
		t.Fatalf("quest rewards=%v, want %v", gq.Rewards, wq.Rewards)
	}
	if len(gq.Objectives) != 2 || gq.Objectives[0].Text != "Clear papers" || gq.Objectives[1].IsRequired {
		t.Fatalf("objectives=%+v", gq.Objectives)
	}

	if len(got.Recurring) != 1 || got.Recurring[0].StreakCount != 1 || got.Recurring[0].LastCompletedAt == nil {
		t.Fatalf("recurring=%+v", got.Recurring)
	}
	if len(got.Buffs) != 1 || got.Buffs[0].StatBoost[engine.StatIntellect] != 2 || !got.Buffs[0].ExpiresAt.Equal(want.Buffs[0].ExpiresAt) {
		t.Fatalf("buffs=%+v", got.Buffs)
	}
	if len(got.Achievements) != 1 || !got.Achievements[0].Unlocked || got.Achievements[0].UnlockedAt == nil {
		t.Fatalf("achievements=%+v", got.Achievements)
	}
	if len(got.Achievements[0].Rewards) != 1 {
		t.Fatalf("achievement rewards=%v", got.Achievements[0].Rewards)
	}
}

func TestSQLiteStoreSaveReplacesChildren(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	st := seededState(t)
	if err := store.Save(ctx, "hero", st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	next := st.Clone()
	next.Buffs = nil
	next.Quests = next.Quests[:0]
	if err := store.Save(ctx, "hero", next); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "hero")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Buffs) != 0 || len(got.Quests) != 0 {
		t.Fatalf("expected children replaced, got %d buffs %d quests", len(got.Buffs), len(got.Quests))
	}

	ids, err := store.ListCharacterIDs(ctx)
	if err != nil {
		t.Fatalf("ListCharacterIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "hero" {
		t.Fatalf("ids=%v", ids)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	st := seededState(t)
	if err := store.Save(ctx, "hero", st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st.Character.Gold = 9999

	got, err := store.Load(ctx, "hero")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Character.Gold == 9999 {
		t.Fatalf("store shares memory with caller")
	}
	got.Quests[0].Objectives[0].Text = "changed"

	again, _ := store.Load(ctx, "hero")
	if again.Quests[0].Objectives[0].Text != "Clear papers" {
		t.Fatalf("store shares memory with loaded copy")
	}

	missing, err := store.Load(ctx, "ghost")
	if err != nil || missing != nil {
		t.Fatalf("Load(ghost) = %v, %v", missing, err)
	}
}
