package engine

import "time"

type ClassTag string

const (
	ClassWanderer  ClassTag = "wanderer"
	ClassScholar   ClassTag = "scholar"
	ClassAthlete   ClassTag = "athlete"
	ClassArtisan   ClassTag = "artisan"
	ClassCaretaker ClassTag = "caretaker"
)

func (c ClassTag) IsValid() bool {
	switch c {
	case ClassWanderer, ClassScholar, ClassAthlete, ClassArtisan, ClassCaretaker:
		return true
	default:
		return false
	}
}

// DefaultClass is used when onboarding input is missing.
const DefaultClass ClassTag = ClassWanderer

type ResourceKind string

const (
	ResourceEnergy     ResourceKind = "energy"
	ResourceFocus      ResourceKind = "focus"
	ResourceMotivation ResourceKind = "motivation"
	ResourceSpoons     ResourceKind = "spoons"
)

// ResourceKinds lists every pool a character owns, in display order.
var ResourceKinds = []ResourceKind{ResourceEnergy, ResourceFocus, ResourceMotivation, ResourceSpoons}

func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceEnergy, ResourceFocus, ResourceMotivation, ResourceSpoons:
		return true
	default:
		return false
	}
}

type Stat string

const (
	StatStrength   Stat = "strength"
	StatIntellect  Stat = "intellect"
	StatWisdom     Stat = "wisdom"
	StatCharisma   Stat = "charisma"
	StatCreativity Stat = "creativity"
	StatVitality   Stat = "vitality"
)

var Stats = []Stat{StatStrength, StatIntellect, StatWisdom, StatCharisma, StatCreativity, StatVitality}

func (s Stat) IsValid() bool {
	switch s {
	case StatStrength, StatIntellect, StatWisdom, StatCharisma, StatCreativity, StatVitality:
		return true
	default:
		return false
	}
}

type Difficulty int

const (
	DifficultyTrivial Difficulty = 1
	DifficultyEasy    Difficulty = 2
	DifficultyMedium  Difficulty = 3
	DifficultyHard    Difficulty = 4
	DifficultyEpic    Difficulty = 5
)

func (d Difficulty) IsValid() bool {
	return d >= DifficultyTrivial && d <= DifficultyEpic
}

type QuestType string

const (
	QuestMain   QuestType = "main"
	QuestSide   QuestType = "side"
	QuestDaily  QuestType = "daily"
	QuestWeekly QuestType = "weekly"
	QuestEpic   QuestType = "epic"
)

func (q QuestType) IsValid() bool {
	switch q {
	case QuestMain, QuestSide, QuestDaily, QuestWeekly, QuestEpic:
		return true
	default:
		return false
	}
}

type QuestStatus string

const (
	QuestAvailable QuestStatus = "available"
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
	QuestAbandoned QuestStatus = "abandoned"
)

func (s QuestStatus) IsValid() bool {
	switch s {
	case QuestAvailable, QuestActive, QuestCompleted, QuestFailed, QuestAbandoned:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s QuestStatus) IsTerminal() bool {
	return s == QuestCompleted || s == QuestFailed || s == QuestAbandoned
}

type RecurringKind string

const (
	RecurringNeed  RecurringKind = "need"
	RecurringDaily RecurringKind = "daily"
)

func (k RecurringKind) IsValid() bool {
	return k == RecurringNeed || k == RecurringDaily
}

type BuffKind string

const (
	BuffSelfCare BuffKind = "self_care"
	BuffRest     BuffKind = "rest"
	BuffFocus    BuffKind = "focus"
	BuffSocial   BuffKind = "social"
	BuffCreative BuffKind = "creative"
	BuffExercise BuffKind = "exercise"
)

func (k BuffKind) IsValid() bool {
	_, ok := buffBaseXP[k]
	return ok
}

type Counter string

const (
	CounterQuestsCompleted      Counter = "quests_completed"
	CounterObjectivesCompleted  Counter = "objectives_completed"
	CounterCharacterLevel       Counter = "character_level"
	CounterTotalXP              Counter = "total_xp"
	CounterNeedsCompleted       Counter = "needs_completed"
	CounterDailyQuestsCompleted Counter = "daily_quests_completed"
	CounterBestStreak           Counter = "best_streak"
	CounterLongestActiveStreak  Counter = "longest_active_streak"
	CounterBuffsActivated       Counter = "buffs_activated"
	CounterGoldEarned           Counter = "gold_earned"
)

func (c Counter) IsValid() bool {
	switch c {
	case CounterQuestsCompleted, CounterObjectivesCompleted, CounterCharacterLevel,
		CounterTotalXP, CounterNeedsCompleted, CounterDailyQuestsCompleted,
		CounterBestStreak, CounterLongestActiveStreak, CounterBuffsActivated,
		CounterGoldEarned:
		return true
	default:
		return false
	}
}

type Character struct {
	ID           string
	Name         string
	Class        ClassTag
	Level        int
	TotalXP      int
	Gold         int
	Stats        map[Stat]int
	SkillCredits map[string]int
	CreatedAt    time.Time
}

type ResourcePool struct {
	Kind             ResourceKind
	Current          int
	Max              int
	RegenRatePerHour float64
	LastUpdated      time.Time
}

type Objective struct {
	ID          string
	QuestID     string
	Text        string
	Order       int
	IsRequired  bool
	IsCompleted bool
	CompletedAt *time.Time
	XPReward    int
	Rewards     []Reward
}

type Quest struct {
	ID               string
	Name             string
	Description      string
	Type             QuestType
	Difficulty       Difficulty
	Status           QuestStatus
	XPReward         int
	GoldReward       int
	Rewards          []Reward
	TimeLimitMinutes int
	TemplateID       string
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	EndedAt          *time.Time
	Objectives       []Objective
}

type RecurringItem struct {
	ID                string
	Name              string
	Kind              RecurringKind
	IdealCadenceHours int
	LastCompletedAt   *time.Time
	StreakCount       int
	BestStreak        int
	TotalCompletions  int
	XPReward          int
	Rewards           []Reward
}

type Buff struct {
	ID              string
	Name            string
	Kind            BuffKind
	StatBoost       map[Stat]int
	StackCount      int
	DurationMinutes int
	ActivatedAt     time.Time
	ExpiresAt       time.Time
	IsActive        bool
}

type Achievement struct {
	ID               string
	Name             string
	Description      string
	Category         string
	Counter          Counter
	ProgressCurrent  int
	ProgressRequired int
	Unlocked         bool
	UnlockedAt       *time.Time
	XPReward         int
	Rewards          []Reward
}

// Tally holds lifetime counters that can't be recomputed from live state.
type Tally struct {
	NeedsCompleted       int
	DailyQuestsCompleted int
	BuffsActivated       int
	GoldEarned           int
}
