package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is one character's whole aggregate. Every event mutates a Clone and
// the caller commits it only on success.
type State struct {
	Character    Character
	Pools        map[ResourceKind]ResourcePool
	Quests       []Quest
	Recurring    []RecurringItem
	Buffs        []Buff
	Achievements []Achievement
	Tally        Tally
	UpdatedAt    time.Time
}

type NewCharacterInput struct {
	ID    string
	Name  string
	Class ClassTag
}

// NewState builds a level 1 character with class starting pools.
func NewState(in NewCharacterInput, achievements []AchievementDef, now time.Time) (*State, error) {
	name, err := normalizeName("character name", in.Name)
	if err != nil {
		return nil, err
	}
	class := in.Class
	if class == "" {
		class = DefaultClass
	}
	if !class.IsValid() {
		return nil, invalid("class", "unknown class %q", in.Class)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	s := &State{
		Character: Character{
			ID:           id,
			Name:         name,
			Class:        class,
			Level:        1,
			Stats:        map[Stat]int{},
			SkillCredits: map[string]int{},
			CreatedAt:    now,
		},
		Pools:     StartingPools(class, now),
		UpdatedAt: now,
	}
	if err := s.SyncAchievements(achievements); err != nil {
		return nil, err
	}
	return s, nil
}

// SyncAchievements adds catalog entries the state doesn't track yet. Existing
// progress is kept.
func (s *State) SyncAchievements(defs []AchievementDef) error {
	have := make(map[string]bool, len(s.Achievements))
	for _, a := range s.Achievements {
		have[a.ID] = true
	}
	for _, def := range defs {
		if have[def.ID] {
			continue
		}
		a, err := NewAchievement(def)
		if err != nil {
			return err
		}
		s.Achievements = append(s.Achievements, a)
		have[a.ID] = true
	}
	return nil
}

// Reconcile restores derived invariants after loading.
func (s *State) Reconcile() {
	s.Character.Level = LevelForTotalXP(s.Character.TotalXP)
	if s.Pools == nil {
		s.Pools = map[ResourceKind]ResourcePool{}
	}
	for k, p := range s.Pools {
		s.Pools[k] = clampPool(p)
	}
	for i := range s.Quests {
		SortObjectives(s.Quests[i].Objectives)
	}
}

func (s *State) questIndex(id string) int {
	for i := range s.Quests {
		if s.Quests[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) recurringIndex(id string) int {
	for i := range s.Recurring {
		if s.Recurring[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) Quest(id string) (Quest, bool) {
	if i := s.questIndex(id); i >= 0 {
		return s.Quests[i], true
	}
	return Quest{}, false
}

func (s *State) RecurringItem(id string) (RecurringItem, bool) {
	if i := s.recurringIndex(id); i >= 0 {
		return s.Recurring[i], true
	}
	return RecurringItem{}, false
}

// Clone returns a deep copy; nothing in the copy aliases s.
func (s *State) Clone() *State {
	c := &State{
		Character: s.Character,
		Tally:     s.Tally,
		UpdatedAt: s.UpdatedAt,
	}
	c.Character.Stats = copyStatMap(s.Character.Stats)
	c.Character.SkillCredits = copyIntMap(s.Character.SkillCredits)

	if s.Pools != nil {
		c.Pools = make(map[ResourceKind]ResourcePool, len(s.Pools))
		for k, p := range s.Pools {
			c.Pools[k] = p
		}
	}

	c.Quests = make([]Quest, len(s.Quests))
	for i, q := range s.Quests {
		q.StartedAt = copyTime(q.StartedAt)
		q.CompletedAt = copyTime(q.CompletedAt)
		q.EndedAt = copyTime(q.EndedAt)
		q.Rewards = append([]Reward(nil), q.Rewards...)
		objs := make([]Objective, len(q.Objectives))
		for j, o := range q.Objectives {
			o.CompletedAt = copyTime(o.CompletedAt)
			o.Rewards = append([]Reward(nil), o.Rewards...)
			objs[j] = o
		}
		q.Objectives = objs
		c.Quests[i] = q
	}

	c.Recurring = make([]RecurringItem, len(s.Recurring))
	for i, it := range s.Recurring {
		it.LastCompletedAt = copyTime(it.LastCompletedAt)
		it.Rewards = append([]Reward(nil), it.Rewards...)
		c.Recurring[i] = it
	}

	c.Buffs = make([]Buff, len(s.Buffs))
	for i, b := range s.Buffs {
		b.StatBoost = copyStatMap(b.StatBoost)
		c.Buffs[i] = b
	}

	c.Achievements = make([]Achievement, len(s.Achievements))
	for i, a := range s.Achievements {
		a.UnlockedAt = copyTime(a.UnlockedAt)
		a.Rewards = append([]Reward(nil), a.Rewards...)
		c.Achievements[i] = a
	}
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyIntMap(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
