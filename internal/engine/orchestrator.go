package engine

import (
	"time"
)

// Outcome is the part of every event result produced by the shared cascade:
// XP, leveling, resource changes and achievement unlocks.
type Outcome struct {
	DirectXP             int
	AchievementXP        int
	LevelBefore          int
	LevelAfter           int
	ResourceDeltas       []ResourceDelta
	GoldGained           int
	StatBoosts           map[Stat]int
	SkillCredits         map[string]int
	AchievementsUnlocked []AchievementUnlock
}

func (o Outcome) TotalXP() int    { return o.DirectXP + o.AchievementXP }
func (o Outcome) LeveledUp() bool { return o.LevelAfter > o.LevelBefore }

func (o Outcome) LevelsGained() int {
	return LevelChange{Before: o.LevelBefore, After: o.LevelAfter}.LevelsGained()
}

// NewLevel is set only when the event changed the level.
func (o Outcome) NewLevel() *int {
	if !o.LeveledUp() {
		return nil
	}
	l := o.LevelAfter
	return &l
}

type ObjectiveResult struct {
	QuestID        string
	ObjectiveID    string
	ObjectiveXP    int
	QuestXP        int
	QuestStarted   bool
	QuestCompleted bool
	Outcome
}

type QuestResult struct {
	QuestID string
	QuestXP int
	Outcome
}

type NeedResult struct {
	NeedID       string
	XP           int
	NewStreak    int
	BestStreak   int
	StreakBroken bool
	WasOverdue   bool
	IsOverdue    bool
	Outcome
}

type BuffResult struct {
	BuffID     string
	XP         int
	Stacked    bool
	StackCount int
	ExpiresAt  time.Time
	Outcome
}

type DailyQuestResult struct {
	DailyID      string
	XP           int
	StreakBonus  int
	NewStreak    int
	BestStreak   int
	StreakBroken bool
	Outcome
}

type HousekeepingReport struct {
	Regenerated  []ResourceDelta
	BuffsPruned  int
	QuestsFailed []string
}

// Orchestrator applies events to a State. Every method works on a clone and
// returns it only when the whole cascade succeeded, so a failed event leaves
// the caller's state untouched.
type Orchestrator struct {
	Streaks StreakPolicy
}

func NewOrchestrator(policy StreakPolicy) Orchestrator {
	return Orchestrator{Streaks: policy}
}

// begin clones s and catches pools up to now.
func (o Orchestrator) begin(s *State, now time.Time) *State {
	c := s.Clone()
	c.regenerate(now)
	return c
}

func (s *State) regenerate(now time.Time) []ResourceDelta {
	var deltas []ResourceDelta
	for _, kind := range ResourceKinds {
		p, ok := s.Pools[kind]
		if !ok {
			continue
		}
		before := p.Current
		p = RegenerateUntil(p, now)
		s.Pools[kind] = p
		if p.Current != before {
			deltas = append(deltas, ResourceDelta{Kind: kind, Requested: p.Current - before, Before: before, After: p.Current})
		}
	}
	return deltas
}

// settle runs the shared tail of the cascade on c: one XP award for the
// direct rewards, resource and other non-XP rewards, then achievements with
// a second XP award for whatever they unlocked.
func (o Orchestrator) settle(c *State, direct rewardBundle, now time.Time) (Outcome, error) {
	out := Outcome{LevelBefore: c.Character.Level, LevelAfter: c.Character.Level}

	if direct.XP > 0 {
		ch, _, err := AddXP(c.Character, direct.XP)
		if err != nil {
			return out, err
		}
		c.Character = ch
		out.DirectXP = direct.XP
	}
	if err := c.applyBundle(direct, &out); err != nil {
		return out, err
	}

	snap := BuildSnapshot(c, now)
	var earned rewardBundle
	for i := range c.Achievements {
		a, unlock := EvaluateAchievement(c.Achievements[i], snap, now)
		c.Achievements[i] = a
		if unlock == nil {
			continue
		}
		out.AchievementsUnlocked = append(out.AchievementsUnlocked, *unlock)
		earned.XP += unlock.XP
		earned.add(unlock.Rewards)
	}
	if earned.XP > 0 {
		ch, _, err := AddXP(c.Character, earned.XP)
		if err != nil {
			return out, err
		}
		c.Character = ch
		out.AchievementXP = earned.XP
	}
	if err := c.applyBundle(earned, &out); err != nil {
		return out, err
	}

	out.LevelAfter = c.Character.Level
	c.UpdatedAt = now
	return out, nil
}

// applyBundle applies the non-XP parts of b.
func (s *State) applyBundle(b rewardBundle, out *Outcome) error {
	for _, kind := range ResourceKinds {
		amount, ok := b.Resources[kind]
		if !ok || amount == 0 {
			continue
		}
		pool, ok := s.Pools[kind]
		if !ok {
			return NotFoundError{Entity: "resource pool", ID: string(kind)}
		}
		pool, delta, err := ApplyDelta(pool, amount)
		if err != nil {
			return err
		}
		s.Pools[kind] = pool
		out.ResourceDeltas = append(out.ResourceDeltas, delta)
	}

	if b.Gold > 0 {
		s.Character.Gold += b.Gold
		s.Tally.GoldEarned += b.Gold
		out.GoldGained += b.Gold
	}
	for stat, v := range b.Stats {
		if s.Character.Stats == nil {
			s.Character.Stats = map[Stat]int{}
		}
		if out.StatBoosts == nil {
			out.StatBoosts = map[Stat]int{}
		}
		s.Character.Stats[stat] += v
		out.StatBoosts[stat] += v
	}
	for skill, v := range b.Skills {
		if s.Character.SkillCredits == nil {
			s.Character.SkillCredits = map[string]int{}
		}
		if out.SkillCredits == nil {
			out.SkillCredits = map[string]int{}
		}
		s.Character.SkillCredits[skill] += v
		out.SkillCredits[skill] += v
	}
	return nil
}

func (o Orchestrator) CompleteObjective(s *State, questID, objectiveID string, now time.Time) (*State, ObjectiveResult, error) {
	res := ObjectiveResult{QuestID: questID, ObjectiveID: objectiveID}
	c := o.begin(s, now)

	i := c.questIndex(questID)
	if i < 0 {
		return s, res, NotFoundError{Entity: "quest", ID: questID}
	}
	q, oc, err := CompleteObjective(c.Quests[i], objectiveID, now)
	if err != nil {
		return s, res, err
	}
	c.Quests[i] = q

	class := c.Character.Class
	var b rewardBundle
	res.ObjectiveXP = ApplyClassBonus(class, SourceObjective, oc.Objective.XPReward)
	b.XP += res.ObjectiveXP
	b.add(oc.Objective.Rewards)
	res.QuestStarted = oc.QuestStarted

	if oc.Cascade != nil {
		res.QuestCompleted = true
		res.QuestXP = ApplyClassBonus(class, SourceQuest, oc.Cascade.XP)
		b.XP += res.QuestXP
		b.Gold += oc.Cascade.Gold
		b.add(oc.Cascade.Rewards)
	}

	if res.Outcome, err = o.settle(c, b, now); err != nil {
		return s, res, err
	}
	return c, res, nil
}

func (o Orchestrator) CompleteQuest(s *State, questID string, now time.Time) (*State, QuestResult, error) {
	res := QuestResult{QuestID: questID}
	c := o.begin(s, now)

	i := c.questIndex(questID)
	if i < 0 {
		return s, res, NotFoundError{Entity: "quest", ID: questID}
	}
	q, qc, err := CompleteQuest(c.Quests[i], now)
	if err != nil {
		return s, res, err
	}
	c.Quests[i] = q

	var b rewardBundle
	res.QuestXP = ApplyClassBonus(c.Character.Class, SourceQuest, qc.XP)
	b.XP += res.QuestXP
	b.Gold += qc.Gold
	b.add(qc.Rewards)

	if res.Outcome, err = o.settle(c, b, now); err != nil {
		return s, res, err
	}
	return c, res, nil
}

func (o Orchestrator) recordRecurring(c *State, id string, kind RecurringKind, now time.Time) (int, RecurringItem, StreakChange, bool, error) {
	i := c.recurringIndex(id)
	if i < 0 || c.Recurring[i].Kind != kind {
		return -1, RecurringItem{}, StreakChange{}, false, NotFoundError{Entity: string(kind), ID: id}
	}
	wasOverdue := IsOverdue(c.Recurring[i], now)
	item, change, err := RecordCompletion(c.Recurring[i], now, o.Streaks)
	if err != nil {
		return -1, RecurringItem{}, StreakChange{}, false, err
	}
	c.Recurring[i] = item
	return i, item, change, wasOverdue, nil
}

func (o Orchestrator) CompleteNeed(s *State, needID string, now time.Time) (*State, NeedResult, error) {
	res := NeedResult{NeedID: needID}
	c := o.begin(s, now)

	_, item, change, wasOverdue, err := o.recordRecurring(c, needID, RecurringNeed, now)
	if err != nil {
		return s, res, err
	}
	c.Tally.NeedsCompleted++

	var b rewardBundle
	res.XP = ApplyClassBonus(c.Character.Class, SourceNeed, item.XPReward)
	b.XP += res.XP
	b.add(item.Rewards)

	res.NewStreak = change.After
	res.BestStreak = change.Best
	res.StreakBroken = change.Broken
	res.WasOverdue = wasOverdue
	res.IsOverdue = IsOverdue(item, now)

	if res.Outcome, err = o.settle(c, b, now); err != nil {
		return s, res, err
	}
	return c, res, nil
}

func (o Orchestrator) CompleteDailyQuest(s *State, dailyID string, now time.Time) (*State, DailyQuestResult, error) {
	res := DailyQuestResult{DailyID: dailyID}
	c := o.begin(s, now)

	_, item, change, _, err := o.recordRecurring(c, dailyID, RecurringDaily, now)
	if err != nil {
		return s, res, err
	}
	c.Tally.DailyQuestsCompleted++

	var b rewardBundle
	res.XP = ApplyClassBonus(c.Character.Class, SourceDaily, item.XPReward)
	res.StreakBonus = DailyStreakBonus(item.XPReward, change.After)
	b.XP += res.XP + res.StreakBonus
	b.add(item.Rewards)

	res.NewStreak = change.After
	res.BestStreak = change.Best
	res.StreakBroken = change.Broken

	if res.Outcome, err = o.settle(c, b, now); err != nil {
		return s, res, err
	}
	return c, res, nil
}

func (o Orchestrator) ActivateBuff(s *State, req BuffRequest, now time.Time) (*State, BuffResult, error) {
	var res BuffResult
	c := o.begin(s, now)

	buffs, ev, err := ActivateBuff(c.Buffs, req, now)
	if err != nil {
		return s, res, err
	}
	c.Buffs = buffs
	c.Tally.BuffsActivated++

	res.BuffID = ev.Buff.ID
	res.Stacked = ev.Stacked
	res.StackCount = ev.Buff.StackCount
	res.ExpiresAt = ev.Buff.ExpiresAt
	res.XP = ApplyClassBonus(c.Character.Class, SourceBuff, BuffXP(req.Kind, req.DurationMinutes))

	if res.Outcome, err = o.settle(c, rewardBundle{XP: res.XP}, now); err != nil {
		return s, res, err
	}
	return c, res, nil
}

func (o Orchestrator) DeactivateBuff(s *State, buffID string, now time.Time) (*State, error) {
	c := o.begin(s, now)
	buffs, err := DeactivateBuff(c.Buffs, buffID, now)
	if err != nil {
		return s, err
	}
	c.Buffs = buffs
	c.UpdatedAt = now
	return c, nil
}

// CreateQuest checks the difficulty gate and open-quest capacity, then adds
// the quest as available.
func (o Orchestrator) CreateQuest(s *State, d QuestDraft, now time.Time) (*State, Quest, error) {
	if d.Difficulty == 0 {
		d.Difficulty = DifficultyTrivial
	}
	if err := CanUseDifficulty(s.Character.Level, d.Difficulty); err != nil {
		return s, Quest{}, err
	}
	if limit := MaxOpenQuests(s.Character.Level); countOpenQuests(s.Quests) >= limit {
		return s, Quest{}, CapacityError{Limit: limit}
	}
	q, err := NewQuest(d, now)
	if err != nil {
		return s, Quest{}, err
	}
	c := o.begin(s, now)
	c.Quests = append(c.Quests, q)
	c.UpdatedAt = now
	return c, q, nil
}

func (o Orchestrator) updateQuest(s *State, questID string, now time.Time, fn func(Quest) (Quest, error)) (*State, Quest, error) {
	c := o.begin(s, now)
	i := c.questIndex(questID)
	if i < 0 {
		return s, Quest{}, NotFoundError{Entity: "quest", ID: questID}
	}
	q, err := fn(c.Quests[i])
	if err != nil {
		return s, Quest{}, err
	}
	c.Quests[i] = q
	c.UpdatedAt = now
	return c, q, nil
}

func (o Orchestrator) StartQuest(s *State, questID string, now time.Time) (*State, Quest, error) {
	return o.updateQuest(s, questID, now, func(q Quest) (Quest, error) { return StartQuest(q, now) })
}

func (o Orchestrator) AbandonQuest(s *State, questID string, now time.Time) (*State, Quest, error) {
	return o.updateQuest(s, questID, now, func(q Quest) (Quest, error) { return AbandonQuest(q, now) })
}

func (o Orchestrator) AddObjective(s *State, questID string, d ObjectiveDraft, now time.Time) (*State, Objective, error) {
	var added Objective
	c, _, err := o.updateQuest(s, questID, now, func(q Quest) (Quest, error) {
		var err error
		q, added, err = AddObjective(q, d)
		return q, err
	})
	return c, added, err
}

// SetQuestDifficulty retunes an available quest and recomputes its XP.
func (o Orchestrator) SetQuestDifficulty(s *State, questID string, d Difficulty, now time.Time) (*State, Quest, error) {
	if !d.IsValid() {
		return s, Quest{}, invalid("difficulty", "must be 1..5, got %d", d)
	}
	if err := CanUseDifficulty(s.Character.Level, d); err != nil {
		return s, Quest{}, err
	}
	return o.updateQuest(s, questID, now, func(q Quest) (Quest, error) {
		if q.Status != QuestAvailable {
			return q, TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status)}
		}
		xp, err := CalculateXP(d)
		if err != nil {
			return q, err
		}
		q.Difficulty = d
		q.XPReward = xp
		return q, nil
	})
}

func (o Orchestrator) AddRecurringItem(s *State, d RecurringDraft, now time.Time) (*State, RecurringItem, error) {
	item, err := NewRecurringItem(d)
	if err != nil {
		return s, RecurringItem{}, err
	}
	c := o.begin(s, now)
	c.Recurring = append(c.Recurring, item)
	c.UpdatedAt = now
	return c, item, nil
}

// AdjustResource applies a manual signed change to one pool.
func (o Orchestrator) AdjustResource(s *State, kind ResourceKind, amount int, now time.Time) (*State, ResourceDelta, error) {
	if !kind.IsValid() {
		return s, ResourceDelta{}, invalid("resource", "unknown resource %q", kind)
	}
	c := o.begin(s, now)
	pool, ok := c.Pools[kind]
	if !ok {
		return s, ResourceDelta{}, NotFoundError{Entity: "resource pool", ID: string(kind)}
	}
	pool, delta, err := ApplyDelta(pool, amount)
	if err != nil {
		return s, ResourceDelta{}, err
	}
	c.Pools[kind] = pool
	c.UpdatedAt = now
	return c, delta, nil
}

// Housekeep regenerates pools, drops expired buffs and fails quests whose
// time limit has passed.
func (o Orchestrator) Housekeep(s *State, now time.Time) (*State, HousekeepingReport) {
	var rep HousekeepingReport
	c := s.Clone()
	rep.Regenerated = c.regenerate(now)
	c.Buffs, rep.BuffsPruned = PruneExpired(c.Buffs, now)
	for i, q := range c.Quests {
		if !IsExpired(q, now) {
			continue
		}
		failed, err := FailQuest(q, now)
		if err != nil {
			continue
		}
		c.Quests[i] = failed
		rep.QuestsFailed = append(rep.QuestsFailed, q.ID)
	}
	c.UpdatedAt = now
	return c, rep
}
