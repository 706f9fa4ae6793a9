package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence boundary. Load returns (nil, nil) for an unknown
// character.
type Store interface {
	Load(ctx context.Context, characterID string) (*State, error)
	Save(ctx context.Context, characterID string, s *State) error
	ListCharacterIDs(ctx context.Context) ([]string, error)
}

// Recorder observes committed and rejected events.
type Recorder interface {
	EventApplied(kind string, out Outcome)
	EventRejected(kind string, err error)
}

type nopRecorder struct{}

func (nopRecorder) EventApplied(string, Outcome) {}
func (nopRecorder) EventRejected(string, error)  {}

type Options struct {
	Clock        Clock
	Streaks      StreakPolicy
	Templates    []QuestTemplate
	Achievements []AchievementDef
	Logger       *slog.Logger
	Recorder     Recorder
}

// Service serialises events per character, reads the clock once per event
// and commits the resulting state through the Store.
type Service struct {
	store        Store
	clock        Clock
	orch         Orchestrator
	templates    []QuestTemplate
	achievements []AchievementDef
	log          *slog.Logger
	rec          Recorder

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return &Service{
		store:        store,
		clock:        opts.Clock,
		orch:         NewOrchestrator(opts.Streaks),
		templates:    opts.Templates,
		achievements: opts.Achievements,
		log:          opts.Logger,
		rec:          opts.Recorder,
		locks:        map[string]*sync.Mutex{},
	}
}

func (s *Service) Clock() Clock               { return s.clock }
func (s *Service) Templates() []QuestTemplate { return s.templates }

func (s *Service) lock(characterID string) func() {
	s.mu.Lock()
	m, ok := s.locks[characterID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[characterID] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func normalizeCharacterID(id string) (string, error) {
	c := strings.TrimSpace(id)
	if c == "" {
		return "", invalid("character id", "is required")
	}
	return c, nil
}

func (s *Service) load(ctx context.Context, characterID string) (*State, error) {
	st, err := s.store.Load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, NotFoundError{Entity: "character", ID: characterID}
	}
	st.Reconcile()
	if err := st.SyncAchievements(s.achievements); err != nil {
		return nil, err
	}
	return st, nil
}

// apply runs one event for a character under its lock. fn receives the
// loaded state and the event's single "now"; its returned state is saved.
func (s *Service) apply(ctx context.Context, characterID, kind string, fn func(st *State, now time.Time) (*State, error)) error {
	id, err := normalizeCharacterID(characterID)
	if err != nil {
		return err
	}
	unlock := s.lock(id)
	defer unlock()

	st, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	now := s.clock.Now()

	next, err := fn(st, now)
	if err != nil {
		s.rec.EventRejected(kind, err)
		s.log.Debug("event rejected", "character", id, "event", kind, "err", err)
		return err
	}
	if err := s.store.Save(ctx, id, next); err != nil {
		s.rec.EventRejected(kind, err)
		return fmt.Errorf("save character %s: %w", id, err)
	}
	return nil
}

func (s *Service) logOutcome(id, kind string, out Outcome, attrs ...any) {
	s.rec.EventApplied(kind, out)
	args := append([]any{"character", id, "event", kind, "xp", out.TotalXP(), "level", out.LevelAfter}, attrs...)
	s.log.Info("event applied", args...)
	if out.LeveledUp() {
		s.log.Info("level up", "character", id, "from", out.LevelBefore, "to", out.LevelAfter)
	}
	for _, u := range out.AchievementsUnlocked {
		s.log.Info("achievement unlocked", "character", id, "achievement", u.AchievementID, "xp", u.XP)
	}
}

// CreateCharacter stores a new level 1 character.
func (s *Service) CreateCharacter(ctx context.Context, in NewCharacterInput) (*State, error) {
	if strings.TrimSpace(in.ID) == "" {
		in.ID = uuid.NewString()
	}
	id := strings.TrimSpace(in.ID)
	unlock := s.lock(id)
	defer unlock()

	existing, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, TransitionError{Entity: "character", ID: id, From: "existing", Rule: ErrAlreadyExists}
	}
	st, err := NewState(in, s.achievements, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, id, st); err != nil {
		return nil, fmt.Errorf("save character %s: %w", id, err)
	}
	s.log.Info("character created", "character", id, "class", st.Character.Class)
	return st, nil
}

// View returns a copy of the character caught up to now. Nothing is saved.
func (s *Service) View(ctx context.Context, characterID string) (*State, time.Time, error) {
	id, err := normalizeCharacterID(characterID)
	if err != nil {
		return nil, time.Time{}, err
	}
	unlock := s.lock(id)
	defer unlock()

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, time.Time{}, err
	}
	now := s.clock.Now()
	st.regenerate(now)
	return st, now, nil
}

func (s *Service) CompleteObjective(ctx context.Context, characterID, questID, objectiveID string) (*ObjectiveResult, error) {
	var res ObjectiveResult
	err := s.apply(ctx, characterID, "objective", func(st *State, now time.Time) (*State, error) {
		next, r, err := s.orch.CompleteObjective(st, questID, objectiveID, now)
		res = r
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.logOutcome(characterID, "objective", res.Outcome, "quest", questID, "quest_completed", res.QuestCompleted)
	return &res, nil
}

func (s *Service) CompleteQuest(ctx context.Context, characterID, questID string) (*QuestResult, error) {
	var res QuestResult
	err := s.apply(ctx, characterID, "quest", func(st *State, now time.Time) (*State, error) {
		next, r, err := s.orch.CompleteQuest(st, questID, now)
		res = r
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.logOutcome(characterID, "quest", res.Outcome, "quest", questID)
	return &res, nil
}

func (s *Service) CompleteNeed(ctx context.Context, characterID, needID string) (*NeedResult, error) {
	var res NeedResult
	err := s.apply(ctx, characterID, "need", func(st *State, now time.Time) (*State, error) {
		next, r, err := s.orch.CompleteNeed(st, needID, now)
		res = r
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.logOutcome(characterID, "need", res.Outcome, "need", needID, "streak", res.NewStreak)
	return &res, nil
}

func (s *Service) CompleteDailyQuest(ctx context.Context, characterID, dailyID string) (*DailyQuestResult, error) {
	var res DailyQuestResult
	err := s.apply(ctx, characterID, "daily", func(st *State, now time.Time) (*State, error) {
		next, r, err := s.orch.CompleteDailyQuest(st, dailyID, now)
		res = r
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.logOutcome(characterID, "daily", res.Outcome, "daily", dailyID, "streak", res.NewStreak, "bonus", res.StreakBonus)
	return &res, nil
}

func (s *Service) ActivateBuff(ctx context.Context, characterID string, req BuffRequest) (*BuffResult, error) {
	var res BuffResult
	err := s.apply(ctx, characterID, "buff", func(st *State, now time.Time) (*State, error) {
		next, r, err := s.orch.ActivateBuff(st, req, now)
		res = r
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.logOutcome(characterID, "buff", res.Outcome, "buff", req.Name, "stacked", res.Stacked)
	return &res, nil
}

func (s *Service) DeactivateBuff(ctx context.Context, characterID, buffID string) error {
	return s.apply(ctx, characterID, "buff_off", func(st *State, now time.Time) (*State, error) {
		return s.orch.DeactivateBuff(st, buffID, now)
	})
}

func (s *Service) CreateQuest(ctx context.Context, characterID string, d QuestDraft) (*Quest, error) {
	var q Quest
	err := s.apply(ctx, characterID, "quest_create", func(st *State, now time.Time) (*State, error) {
		next, created, err := s.orch.CreateQuest(st, d, now)
		q = created
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) AcceptTemplate(ctx context.Context, characterID, templateID string) (*Quest, error) {
	var q Quest
	err := s.apply(ctx, characterID, "template", func(st *State, now time.Time) (*State, error) {
		next, created, err := s.orch.AcceptTemplate(st, s.templates, templateID, now)
		q = created
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("template accepted", "character", characterID, "template", templateID, "quest", q.ID)
	return &q, nil
}

func (s *Service) StartQuest(ctx context.Context, characterID, questID string) (*Quest, error) {
	return s.questUpdate(ctx, characterID, "quest_start", func(st *State, now time.Time) (*State, Quest, error) {
		return s.orch.StartQuest(st, questID, now)
	})
}

func (s *Service) AbandonQuest(ctx context.Context, characterID, questID string) (*Quest, error) {
	return s.questUpdate(ctx, characterID, "quest_abandon", func(st *State, now time.Time) (*State, Quest, error) {
		return s.orch.AbandonQuest(st, questID, now)
	})
}

func (s *Service) SetQuestDifficulty(ctx context.Context, characterID, questID string, d Difficulty) (*Quest, error) {
	return s.questUpdate(ctx, characterID, "quest_retune", func(st *State, now time.Time) (*State, Quest, error) {
		return s.orch.SetQuestDifficulty(st, questID, d, now)
	})
}

func (s *Service) questUpdate(ctx context.Context, characterID, kind string, fn func(*State, time.Time) (*State, Quest, error)) (*Quest, error) {
	var q Quest
	err := s.apply(ctx, characterID, kind, func(st *State, now time.Time) (*State, error) {
		next, updated, err := fn(st, now)
		q = updated
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) AddObjective(ctx context.Context, characterID, questID string, d ObjectiveDraft) (*Objective, error) {
	var o Objective
	err := s.apply(ctx, characterID, "objective_add", func(st *State, now time.Time) (*State, error) {
		next, added, err := s.orch.AddObjective(st, questID, d, now)
		o = added
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) AddRecurringItem(ctx context.Context, characterID string, d RecurringDraft) (*RecurringItem, error) {
	var item RecurringItem
	err := s.apply(ctx, characterID, "recurring_add", func(st *State, now time.Time) (*State, error) {
		next, added, err := s.orch.AddRecurringItem(st, d, now)
		item = added
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) AdjustResource(ctx context.Context, characterID string, kind ResourceKind, amount int) (*ResourceDelta, error) {
	var d ResourceDelta
	err := s.apply(ctx, characterID, "resource", func(st *State, now time.Time) (*State, error) {
		next, delta, err := s.orch.AdjustResource(st, kind, amount, now)
		d = delta
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Housekeep(ctx context.Context, characterID string) (*HousekeepingReport, error) {
	var rep HousekeepingReport
	err := s.apply(ctx, characterID, "housekeep", func(st *State, now time.Time) (*State, error) {
		next, r := s.orch.Housekeep(st, now)
		rep = r
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("housekeeping", "character", characterID, "buffs_pruned", rep.BuffsPruned, "quests_failed", len(rep.QuestsFailed))
	return &rep, nil
}

// HousekeepAll sweeps every stored character. One character's failure does
// not stop the rest; the errors are joined.
func (s *Service) HousekeepAll(ctx context.Context) error {
	ids, err := s.store.ListCharacterIDs(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Housekeep(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("housekeep %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

type TemplateView struct {
	Template QuestTemplate
	Status   TemplateStatus
}

func (s *Service) TemplateBoard(ctx context.Context, characterID string) ([]TemplateView, error) {
	st, _, err := s.View(ctx, characterID)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateView, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, TemplateView{Template: t, Status: TemplateStatusFor(st, t)})
	}
	return out, nil
}
