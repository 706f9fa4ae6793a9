package api

import (
	"time"

	"lifeforge/internal/engine"
)

type characterView struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Class          string         `json:"class"`
	Level          int            `json:"level"`
	TotalXP        int            `json:"total_xp"`
	XPIntoLevel    int            `json:"xp_into_level"`
	XPForNextLevel int            `json:"xp_for_next_level"`
	Gold           int            `json:"gold"`
	Stats          map[string]int `json:"stats"`
	EffectiveStats map[string]int `json:"effective_stats"`
	SkillCredits   map[string]int `json:"skill_credits,omitempty"`
}

type poolView struct {
	Kind             string    `json:"kind"`
	Current          int       `json:"current"`
	Max              int       `json:"max"`
	RegenRatePerHour float64   `json:"regen_rate_per_hour"`
	LastUpdated      time.Time `json:"last_updated"`
}

type objectiveView struct {
	ID          string                `json:"id"`
	Text        string                `json:"text"`
	Order       int                   `json:"order"`
	Required    bool                  `json:"required"`
	Completed   bool                  `json:"completed"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	XPReward    int                   `json:"xp_reward"`
	Rewards     []engine.RewardRecord `json:"rewards,omitempty"`
}

type questView struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Description      string                `json:"description,omitempty"`
	Type             string                `json:"type"`
	Difficulty       int                   `json:"difficulty"`
	Status           string                `json:"status"`
	XPReward         int                   `json:"xp_reward"`
	GoldReward       int                   `json:"gold_reward"`
	Rewards          []engine.RewardRecord `json:"rewards,omitempty"`
	TimeLimitMinutes int                   `json:"time_limit_minutes,omitempty"`
	Deadline         *time.Time            `json:"deadline,omitempty"`
	TemplateID       string                `json:"template_id,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	StartedAt        *time.Time            `json:"started_at,omitempty"`
	CompletedAt      *time.Time            `json:"completed_at,omitempty"`
	Objectives       []objectiveView       `json:"objectives"`
}

type recurringView struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Kind             string     `json:"kind"`
	CadenceHours     int        `json:"cadence_hours"`
	Streak           int        `json:"streak"`
	BestStreak       int        `json:"best_streak"`
	TotalCompletions int        `json:"total_completions"`
	Overdue          bool       `json:"overdue"`
	LastCompletedAt  *time.Time `json:"last_completed_at,omitempty"`
	NextDue          *time.Time `json:"next_due,omitempty"`
	XPReward         int        `json:"xp_reward"`
}

type buffView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	StackCount int            `json:"stack_count"`
	StatBoost  map[string]int `json:"stat_boost,omitempty"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

type achievementView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category,omitempty"`
	Progress   int        `json:"progress"`
	Required   int        `json:"required"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

type stateView struct {
	Character    characterView     `json:"character"`
	Pools        []poolView        `json:"pools"`
	Quests       []questView       `json:"quests"`
	Recurring    []recurringView   `json:"recurring"`
	Buffs        []buffView        `json:"active_buffs"`
	Achievements []achievementView `json:"achievements"`
	AsOf         time.Time         `json:"as_of"`
}

type unlockView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	XP   int    `json:"xp"`
}

type deltaView struct {
	Kind   string `json:"kind"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

type outcomeView struct {
	TotalXP              int            `json:"total_xp"`
	AchievementXP        int            `json:"achievement_xp"`
	LeveledUp            bool           `json:"leveled_up"`
	LevelsGained         int            `json:"levels_gained"`
	NewLevel             *int           `json:"new_level,omitempty"`
	Gold                 int            `json:"gold,omitempty"`
	ResourceDeltas       []deltaView    `json:"resource_deltas,omitempty"`
	StatBoosts           map[string]int `json:"stat_boosts,omitempty"`
	SkillCredits         map[string]int `json:"skill_credits,omitempty"`
	AchievementsUnlocked []unlockView   `json:"achievements_unlocked"`
}

func statMap(m map[engine.Stat]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func toOutcome(o engine.Outcome) outcomeView {
	v := outcomeView{
		TotalXP:              o.TotalXP(),
		AchievementXP:        o.AchievementXP,
		LeveledUp:            o.LeveledUp(),
		LevelsGained:         o.LevelsGained(),
		NewLevel:             o.NewLevel(),
		Gold:                 o.GoldGained,
		StatBoosts:           statMap(o.StatBoosts),
		SkillCredits:         o.SkillCredits,
		AchievementsUnlocked: []unlockView{},
	}
	for _, d := range o.ResourceDeltas {
		v.ResourceDeltas = append(v.ResourceDeltas, toDelta(d))
	}
	for _, u := range o.AchievementsUnlocked {
		v.AchievementsUnlocked = append(v.AchievementsUnlocked, unlockView{ID: u.AchievementID, Name: u.Name, XP: u.XP})
	}
	return v
}

func toDelta(d engine.ResourceDelta) deltaView {
	return deltaView{Kind: string(d.Kind), Before: d.Before, After: d.After}
}

func toQuest(q engine.Quest) questView {
	v := questView{
		ID:               q.ID,
		Name:             q.Name,
		Description:      q.Description,
		Type:             string(q.Type),
		Difficulty:       int(q.Difficulty),
		Status:           string(q.Status),
		XPReward:         q.XPReward,
		GoldReward:       q.GoldReward,
		Rewards:          engine.RecordsOf(q.Rewards),
		TimeLimitMinutes: q.TimeLimitMinutes,
		Deadline:         engine.Deadline(q),
		TemplateID:       q.TemplateID,
		CreatedAt:        q.CreatedAt,
		StartedAt:        q.StartedAt,
		CompletedAt:      q.CompletedAt,
		Objectives:       make([]objectiveView, 0, len(q.Objectives)),
	}
	for _, o := range q.Objectives {
		v.Objectives = append(v.Objectives, toObjective(o))
	}
	return v
}

func toObjective(o engine.Objective) objectiveView {
	return objectiveView{
		ID:          o.ID,
		Text:        o.Text,
		Order:       o.Order,
		Required:    o.IsRequired,
		Completed:   o.IsCompleted,
		CompletedAt: o.CompletedAt,
		XPReward:    o.XPReward,
		Rewards:     engine.RecordsOf(o.Rewards),
	}
}

func toRecurring(it engine.RecurringItem, now time.Time) recurringView {
	return recurringView{
		ID:               it.ID,
		Name:             it.Name,
		Kind:             string(it.Kind),
		CadenceHours:     it.IdealCadenceHours,
		Streak:           engine.EffectiveStreak(it, now),
		BestStreak:       it.BestStreak,
		TotalCompletions: it.TotalCompletions,
		Overdue:          engine.IsOverdue(it, now),
		LastCompletedAt:  it.LastCompletedAt,
		NextDue:          engine.NextDue(it),
		XPReward:         it.XPReward,
	}
}

func toBuff(b engine.Buff) buffView {
	return buffView{
		ID:         b.ID,
		Name:       b.Name,
		Kind:       string(b.Kind),
		StackCount: b.StackCount,
		StatBoost:  statMap(b.StatBoost),
		ExpiresAt:  b.ExpiresAt,
	}
}

func toState(s *engine.State, now time.Time) stateView {
	c := s.Character
	into, span := engine.LevelProgress(c.TotalXP)
	v := stateView{
		Character: characterView{
			ID:             c.ID,
			Name:           c.Name,
			Class:          string(c.Class),
			Level:          c.Level,
			TotalXP:        c.TotalXP,
			XPIntoLevel:    into,
			XPForNextLevel: span,
			Gold:           c.Gold,
			Stats:          statMap(c.Stats),
			EffectiveStats: statMap(engine.EffectiveStats(c, s.Buffs, now)),
			SkillCredits:   c.SkillCredits,
		},
		Pools:        []poolView{},
		Quests:       []questView{},
		Recurring:    []recurringView{},
		Buffs:        []buffView{},
		Achievements: []achievementView{},
		AsOf:         now,
	}
	for _, kind := range engine.ResourceKinds {
		p, ok := s.Pools[kind]
		if !ok {
			continue
		}
		v.Pools = append(v.Pools, poolView{
			Kind:             string(p.Kind),
			Current:          p.Current,
			Max:              p.Max,
			RegenRatePerHour: p.RegenRatePerHour,
			LastUpdated:      p.LastUpdated,
		})
	}
	for _, q := range s.Quests {
		v.Quests = append(v.Quests, toQuest(q))
	}
	for _, it := range s.Recurring {
		v.Recurring = append(v.Recurring, toRecurring(it, now))
	}
	for _, b := range engine.ActiveBuffs(s.Buffs, now) {
		v.Buffs = append(v.Buffs, toBuff(b))
	}
	for _, a := range s.Achievements {
		v.Achievements = append(v.Achievements, achievementView{
			ID:         a.ID,
			Name:       a.Name,
			Category:   a.Category,
			Progress:   a.ProgressCurrent,
			Required:   a.ProgressRequired,
			Unlocked:   a.Unlocked,
			UnlockedAt: a.UnlockedAt,
		})
	}
	return v
}
