package engine

import (
	"strings"
	"time"
)

// Snapshot holds the counter values achievements are measured against.
type Snapshot map[Counter]int

type AchievementUnlock struct {
	AchievementID string
	Name          string
	XP            int
	Rewards       []Reward
	UnlockedAt    time.Time
}

// AchievementDef is a catalog entry; NewAchievement turns it into tracked state.
type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Category    string
	Counter     Counter
	Required    int
	XPReward    int
	Rewards     []Reward
}

func NewAchievement(def AchievementDef) (Achievement, error) {
	id := strings.TrimSpace(def.ID)
	if id == "" {
		return Achievement{}, invalid("achievement id", "is required")
	}
	name, err := normalizeName("achievement name", def.Name)
	if err != nil {
		return Achievement{}, err
	}
	if !def.Counter.IsValid() {
		return Achievement{}, invalid("counter", "unknown counter %q", def.Counter)
	}
	if def.Required <= 0 {
		return Achievement{}, invalid("required", "must be > 0, got %d", def.Required)
	}
	if err := checkAmount("achievement xp", def.XPReward); err != nil {
		return Achievement{}, err
	}
	if err := ValidateRewards(def.Rewards); err != nil {
		return Achievement{}, err
	}
	return Achievement{
		ID:               id,
		Name:             name,
		Description:      def.Description,
		Category:         def.Category,
		Counter:          def.Counter,
		ProgressRequired: def.Required,
		XPReward:         def.XPReward,
		Rewards:          def.Rewards,
	}, nil
}

// EvaluateAchievement sets progress to the snapshot value and unlocks once
// the requirement is met. Unlocked achievements are returned untouched.
func EvaluateAchievement(a Achievement, snap Snapshot, now time.Time) (Achievement, *AchievementUnlock) {
	if a.Unlocked {
		return a, nil
	}
	a.ProgressCurrent = snap[a.Counter]
	if a.ProgressCurrent < a.ProgressRequired {
		return a, nil
	}
	t := now
	a.Unlocked = true
	a.UnlockedAt = &t
	return a, &AchievementUnlock{
		AchievementID: a.ID,
		Name:          a.Name,
		XP:            a.XPReward,
		Rewards:       a.Rewards,
		UnlockedAt:    t,
	}
}

// BuildSnapshot derives every counter from the aggregate at now.
func BuildSnapshot(s *State, now time.Time) Snapshot {
	snap := Snapshot{
		CounterCharacterLevel:       s.Character.Level,
		CounterTotalXP:              s.Character.TotalXP,
		CounterNeedsCompleted:       s.Tally.NeedsCompleted,
		CounterDailyQuestsCompleted: s.Tally.DailyQuestsCompleted,
		CounterBuffsActivated:       s.Tally.BuffsActivated,
		CounterGoldEarned:           s.Tally.GoldEarned,
	}
	for _, q := range s.Quests {
		if q.Status == QuestCompleted {
			snap[CounterQuestsCompleted]++
		}
		for _, o := range q.Objectives {
			if o.IsCompleted {
				snap[CounterObjectivesCompleted]++
			}
		}
	}
	for _, it := range s.Recurring {
		if it.BestStreak > snap[CounterBestStreak] {
			snap[CounterBestStreak] = it.BestStreak
		}
		if cur := EffectiveStreak(it, now); cur > snap[CounterLongestActiveStreak] {
			snap[CounterLongestActiveStreak] = cur
		}
	}
	return snap
}

// CountUnlocked returns how many achievements have been earned.
func CountUnlocked(achievements []Achievement) int {
	n := 0
	for _, a := range achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}
