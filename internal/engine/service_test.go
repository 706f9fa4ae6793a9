package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"lifeforge/internal/engine"
	"lifeforge/internal/storage"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type flakyStore struct {
	*storage.MemoryStore
	mu   sync.Mutex
	fail bool
}

func (f *flakyStore) Save(ctx context.Context, id string, st *engine.State) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(ctx, id, st)
}

func (f *flakyStore) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

type countingRecorder struct {
	mu       sync.Mutex
	applied  map[string]int
	rejected map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{applied: map[string]int{}, rejected: map[string]int{}}
}

func (r *countingRecorder) EventApplied(kind string, _ engine.Outcome) {
	r.mu.Lock()
	r.applied[kind]++
	r.mu.Unlock()
}

func (r *countingRecorder) EventRejected(kind string, _ error) {
	r.mu.Lock()
	r.rejected[kind]++
	r.mu.Unlock()
}

type testService struct {
	svc   *engine.Service
	store *flakyStore
	clock *engine.FixedClock
	rec   *countingRecorder
}

func newTestService(t *testing.T) *testService {
	t.Helper()
	ts := &testService{
		store: &flakyStore{MemoryStore: storage.NewMemoryStore()},
		clock: engine.NewFixedClock(t0),
		rec:   newCountingRecorder(),
	}
	ts.svc = engine.NewService(ts.store, engine.Options{
		Clock:    ts.clock,
		Streaks:  engine.StreakPolicy{EarlyTolerancePercent: 25},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Recorder: ts.rec,
		Templates: []engine.QuestTemplate{
			{ID: "stretch", Repeatable: true, Draft: engine.QuestDraft{Name: "Stretch"}},
			{ID: "marathon", UnlockLevel: 12, Draft: engine.QuestDraft{Name: "Marathon", Difficulty: engine.DifficultyEpic}},
		},
		Achievements: []engine.AchievementDef{
			{ID: "first_quest", Name: "First Quest", Counter: engine.CounterQuestsCompleted, Required: 1, XPReward: 50},
		},
	})
	if _, err := ts.svc.CreateCharacter(context.Background(), engine.NewCharacterInput{ID: "ada", Name: "Ada", Class: engine.ClassScholar}); err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	return ts
}

func TestCreateCharacter(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	_, err := ts.svc.CreateCharacter(ctx, engine.NewCharacterInput{ID: "ada", Name: "Ada again"})
	if !errors.Is(err, engine.ErrAlreadyExists) {
		t.Fatalf("duplicate err=%v, want already exists", err)
	}
	if _, err := ts.svc.CreateCharacter(ctx, engine.NewCharacterInput{Name: " "}); !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("blank name err=%v, want validation", err)
	}

	st, err := ts.svc.CreateCharacter(ctx, engine.NewCharacterInput{Name: "Bo"})
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	if st.Character.ID == "" || st.Character.Class != engine.ClassWanderer {
		t.Fatalf("character=%+v", st.Character)
	}
	if len(st.Achievements) != 1 {
		t.Fatalf("achievements=%d, want catalog synced", len(st.Achievements))
	}
}

func TestUnknownCharacter(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	if _, _, err := ts.svc.View(ctx, "ghost"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("View err=%v, want not found", err)
	}
	if _, err := ts.svc.CompleteQuest(ctx, "ghost", "q"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("CompleteQuest err=%v, want not found", err)
	}
	if _, _, err := ts.svc.View(ctx, "  "); !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("blank id err=%v, want validation", err)
	}
}

func TestQuestFlowPersists(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	q, err := ts.svc.CreateQuest(ctx, "ada", engine.QuestDraft{
		Name:       "Write report",
		XPReward:   200,
		Objectives: []engine.ObjectiveDraft{{Text: "Outline"}, {Text: "Draft"}},
	})
	if err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	if _, err := ts.svc.CompleteQuest(ctx, "ada", q.ID); !errors.Is(err, engine.ErrIncompleteObjectives) {
		t.Fatalf("early completion err=%v, want incomplete", err)
	}

	if _, err := ts.svc.CompleteObjective(ctx, "ada", q.ID, q.Objectives[0].ID); err != nil {
		t.Fatalf("first objective: %v", err)
	}
	ts.clock.Advance(time.Minute)
	res, err := ts.svc.CompleteObjective(ctx, "ada", q.ID, q.Objectives[1].ID)
	if err != nil {
		t.Fatalf("second objective: %v", err)
	}
	if !res.QuestCompleted || res.QuestXP != 220 || res.AchievementXP != 50 {
		t.Fatalf("res=%+v", res)
	}

	st, _, err := ts.svc.View(ctx, "ada")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if st.Character.TotalXP != 270 {
		t.Fatalf("total xp=%d, want 270", st.Character.TotalXP)
	}
	got, _ := st.Quest(q.ID)
	if got.Status != engine.QuestCompleted || got.CompletedAt == nil || !got.CompletedAt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("quest=%+v", got)
	}

	if ts.rec.applied["objective"] != 2 || ts.rec.rejected["quest"] != 1 {
		t.Fatalf("recorder applied=%v rejected=%v", ts.rec.applied, ts.rec.rejected)
	}
}

func TestSaveFailureLeavesStoredStateUntouched(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	q, err := ts.svc.CreateQuest(ctx, "ada", engine.QuestDraft{Name: "Fragile"})
	if err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	ts.store.setFail(true)
	if _, err := ts.svc.CompleteQuest(ctx, "ada", q.ID); err == nil {
		t.Fatalf("expected save error")
	}
	ts.store.setFail(false)

	st, _, err := ts.svc.View(ctx, "ada")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	got, _ := st.Quest(q.ID)
	if got.Status != engine.QuestAvailable || st.Character.TotalXP != 0 {
		t.Fatalf("state changed after failed save: status=%s xp=%d", got.Status, st.Character.TotalXP)
	}
	if _, err := ts.svc.CompleteQuest(ctx, "ada", q.ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestConcurrentEventsSerialise(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ts.svc.AdjustResource(ctx, "ada", engine.ResourceEnergy, -1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("AdjustResource: %v", err)
	}

	st, _, err := ts.svc.View(ctx, "ada")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got := st.Pools[engine.ResourceEnergy].Current; got != 80 {
		t.Fatalf("energy=%d, want 80", got)
	}
}

func TestRecurringAndBuffs(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	need, err := ts.svc.AddRecurringItem(ctx, "ada", engine.RecurringDraft{Name: "Water", Kind: engine.RecurringNeed, CadenceHours: 24, XPReward: 10})
	if err != nil {
		t.Fatalf("AddRecurringItem: %v", err)
	}
	if _, err := ts.svc.CompleteNeed(ctx, "ada", need.ID); err != nil {
		t.Fatalf("CompleteNeed: %v", err)
	}
	ts.clock.Advance(10 * time.Hour)
	if _, err := ts.svc.CompleteNeed(ctx, "ada", need.ID); !errors.Is(err, engine.ErrAlreadySatisfied) {
		t.Fatalf("early need err=%v, want already satisfied", err)
	}
	ts.clock.Advance(10 * time.Hour)
	res, err := ts.svc.CompleteNeed(ctx, "ada", need.ID)
	if err != nil {
		t.Fatalf("CompleteNeed: %v", err)
	}
	if res.NewStreak != 2 || res.BestStreak != 2 {
		t.Fatalf("res=%+v", res)
	}

	daily, err := ts.svc.AddRecurringItem(ctx, "ada", engine.RecurringDraft{Name: "Journal", Kind: engine.RecurringDaily, CadenceHours: 24, XPReward: 50})
	if err != nil {
		t.Fatalf("AddRecurringItem: %v", err)
	}
	dres, err := ts.svc.CompleteDailyQuest(ctx, "ada", daily.ID)
	if err != nil || dres.NewStreak != 1 || dres.StreakBonus != 0 {
		t.Fatalf("daily res=%+v err=%v", dres, err)
	}

	b, err := ts.svc.ActivateBuff(ctx, "ada", engine.BuffRequest{Name: "Pomodoro", Kind: engine.BuffFocus, DurationMinutes: 25})
	if err != nil {
		t.Fatalf("ActivateBuff: %v", err)
	}
	if err := ts.svc.DeactivateBuff(ctx, "ada", b.BuffID); err != nil {
		t.Fatalf("DeactivateBuff: %v", err)
	}
	if err := ts.svc.DeactivateBuff(ctx, "ada", b.BuffID); !errors.Is(err, engine.ErrBuffExpired) {
		t.Fatalf("second deactivate err=%v, want buff expired", err)
	}
}

func TestTemplateBoardAndAccept(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	board, err := ts.svc.TemplateBoard(ctx, "ada")
	if err != nil {
		t.Fatalf("TemplateBoard: %v", err)
	}
	if len(board) != 2 || board[0].Status != engine.TemplateAvailable || board[1].Status != engine.TemplateLocked {
		t.Fatalf("board=%+v", board)
	}

	q, err := ts.svc.AcceptTemplate(ctx, "ada", "stretch")
	if err != nil {
		t.Fatalf("AcceptTemplate: %v", err)
	}
	if _, err := ts.svc.AcceptTemplate(ctx, "ada", "marathon"); !errors.Is(err, engine.ErrLocked) {
		t.Fatalf("locked template err=%v, want locked", err)
	}
	if _, err := ts.svc.StartQuest(ctx, "ada", q.ID); err != nil {
		t.Fatalf("StartQuest: %v", err)
	}
	ab, err := ts.svc.AbandonQuest(ctx, "ada", q.ID)
	if err != nil || ab.Status != engine.QuestAbandoned {
		t.Fatalf("AbandonQuest: %+v %v", ab, err)
	}
	if len(ts.svc.Templates()) != 2 {
		t.Fatalf("Templates()=%d", len(ts.svc.Templates()))
	}
}

func TestHousekeepAll(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()
	if _, err := ts.svc.CreateCharacter(ctx, engine.NewCharacterInput{ID: "bo", Name: "Bo"}); err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}

	for _, id := range []string{"ada", "bo"} {
		q, err := ts.svc.CreateQuest(ctx, id, engine.QuestDraft{Name: "Timed", TimeLimitMinutes: 15})
		if err != nil {
			t.Fatalf("CreateQuest: %v", err)
		}
		if _, err := ts.svc.StartQuest(ctx, id, q.ID); err != nil {
			t.Fatalf("StartQuest: %v", err)
		}
	}
	ts.clock.Advance(time.Hour)
	if err := ts.svc.HousekeepAll(ctx); err != nil {
		t.Fatalf("HousekeepAll: %v", err)
	}
	for _, id := range []string{"ada", "bo"} {
		st, _, _ := ts.svc.View(ctx, id)
		if st.Quests[0].Status != engine.QuestFailed {
			t.Fatalf("%s quest status=%s, want failed", id, st.Quests[0].Status)
		}
	}

	rep, err := ts.svc.Housekeep(ctx, "ada")
	if err != nil || len(rep.QuestsFailed) != 0 {
		t.Fatalf("second sweep rep=%+v err=%v", rep, err)
	}
}

func TestSetDifficultyAndObjectives(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	q, err := ts.svc.CreateQuest(ctx, "ada", engine.QuestDraft{Name: "Cook"})
	if err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	if _, err := ts.svc.SetQuestDifficulty(ctx, "ada", q.ID, engine.DifficultyEasy); !errors.Is(err, engine.ErrLocked) {
		t.Fatalf("retune err=%v, want locked at level 1", err)
	}
	o, err := ts.svc.AddObjective(ctx, "ada", q.ID, engine.ObjectiveDraft{Text: "Chop onions"})
	if err != nil || o.Order != 1 {
		t.Fatalf("AddObjective: %+v %v", o, err)
	}
	d, err := ts.svc.AdjustResource(ctx, "ada", engine.ResourceFocus, -30)
	if err != nil || d.Before != 120 || d.After != 90 {
		t.Fatalf("AdjustResource: %+v %v", d, err)
	}
}

func TestZeroStreakPolicyIsStrict(t *testing.T) {
	ctx := context.Background()
	clock := engine.NewFixedClock(t0)
	svc := engine.NewService(storage.NewMemoryStore(), engine.Options{Clock: clock})
	if _, err := svc.CreateCharacter(ctx, engine.NewCharacterInput{ID: "cy", Name: "Cy"}); err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	need, err := svc.AddRecurringItem(ctx, "cy", engine.RecurringDraft{Name: "Water", Kind: engine.RecurringNeed, CadenceHours: 24, XPReward: 10})
	if err != nil {
		t.Fatalf("AddRecurringItem: %v", err)
	}
	if _, err := svc.CompleteNeed(ctx, "cy", need.ID); err != nil {
		t.Fatalf("CompleteNeed: %v", err)
	}

	clock.Advance(20 * time.Hour)
	if _, err := svc.CompleteNeed(ctx, "cy", need.ID); !errors.Is(err, engine.ErrAlreadySatisfied) {
		t.Fatalf("20h err=%v, want already satisfied without tolerance", err)
	}
	clock.Advance(4 * time.Hour)
	res, err := svc.CompleteNeed(ctx, "cy", need.ID)
	if err != nil || res.NewStreak != 2 {
		t.Fatalf("24h res=%+v err=%v", res, err)
	}
}

func TestAdjustResourceHugeGainFillsPool(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	if _, err := ts.svc.AdjustResource(ctx, "ada", engine.ResourceEnergy, -40); err != nil {
		t.Fatalf("spend: %v", err)
	}
	d, err := ts.svc.AdjustResource(ctx, "ada", engine.ResourceEnergy, math.MaxInt)
	if err != nil {
		t.Fatalf("gain: %v", err)
	}
	if d.Before != 60 || d.After != 100 {
		t.Fatalf("delta=%+v, want 60 -> 100", d)
	}
}
