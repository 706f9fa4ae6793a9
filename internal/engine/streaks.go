package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CadenceDaily   = 24
	CadenceWeekly  = 7 * 24
	CadenceMonthly = 30 * 24
	// MaxCadenceHours is one year.
	MaxCadenceHours = 365 * 24
)

// StreakPolicy tunes the lower edge of the continuation window.
// EarlyTolerancePercent lets a completion land that share of a cadence early
// and still count as the next period. The zero value is strict: a full
// cadence must pass. A gap beyond one full cadence always breaks the streak.
type StreakPolicy struct {
	EarlyTolerancePercent int
}

func (p StreakPolicy) minSeparationHours(cadence int) float64 {
	pct := p.EarlyTolerancePercent
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return float64(cadence) * float64(100-pct) / 100
}

// ParseCadence accepts daily, weekly, monthly, "<n>h" or a bare hour count.
func ParseCadence(input string) (int, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "daily", "day":
		return CadenceDaily, nil
	case "weekly", "week":
		return CadenceWeekly, nil
	case "monthly", "month":
		return CadenceMonthly, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
	if err != nil || n <= 0 || n > MaxCadenceHours {
		return 0, invalid("cadence", "%q is not daily, weekly, monthly or an hour count in 1..%d", input, MaxCadenceHours)
	}
	return n, nil
}

// StreakChange describes the effect of one recorded completion.
type StreakChange struct {
	ItemID    string
	Before    int
	After     int
	Best      int
	Broken    bool
	GapHours  float64
	FirstEver bool
}

// RecordCompletion applies a completion at now to item.
func RecordCompletion(item RecurringItem, now time.Time, policy StreakPolicy) (RecurringItem, StreakChange, error) {
	if item.IdealCadenceHours <= 0 {
		return item, StreakChange{}, invalid("cadence", "item %s has no cadence", item.ID)
	}
	change := StreakChange{ItemID: item.ID, Before: item.StreakCount}

	switch {
	case item.LastCompletedAt == nil:
		item.StreakCount = 1
		change.FirstEver = true
	default:
		gap := hoursBetween(*item.LastCompletedAt, now)
		change.GapHours = gap
		if gap < policy.minSeparationHours(item.IdealCadenceHours) {
			return item, StreakChange{}, TransitionError{
				Entity: string(item.Kind),
				ID:     item.ID,
				Rule:   ErrAlreadySatisfied,
			}
		}
		if gap > float64(item.IdealCadenceHours) {
			item.StreakCount = 1
			change.Broken = true
		} else {
			item.StreakCount++
		}
	}

	t := now
	item.LastCompletedAt = &t
	item.TotalCompletions++
	if item.StreakCount > item.BestStreak {
		item.BestStreak = item.StreakCount
	}
	change.After = item.StreakCount
	change.Best = item.BestStreak
	return item, change, nil
}

// IsOverdue is derived at read time; a never-completed item is overdue.
func IsOverdue(item RecurringItem, now time.Time) bool {
	if item.LastCompletedAt == nil {
		return true
	}
	return hoursBetween(*item.LastCompletedAt, now) > float64(item.IdealCadenceHours)
}

// EffectiveStreak is the streak a reader should see at now: zero once broken.
func EffectiveStreak(item RecurringItem, now time.Time) int {
	if item.LastCompletedAt == nil || IsOverdue(item, now) {
		return 0
	}
	return item.StreakCount
}

// NextDue is when the item becomes overdue.
func NextDue(item RecurringItem) *time.Time {
	if item.LastCompletedAt == nil {
		return nil
	}
	t := item.LastCompletedAt.Add(time.Duration(item.IdealCadenceHours) * time.Hour)
	return &t
}

const (
	DailyStreakBonusPercent = 10
	DailyStreakBonusCap     = 10
)

// DailyStreakBonus is the extra XP a daily quest earns for its running streak:
// 10% of base per consecutive day beyond the first, capped at ten days.
func DailyStreakBonus(baseXP int, streak int) int {
	steps := streak - 1
	if steps <= 0 || baseXP <= 0 {
		return 0
	}
	if steps > DailyStreakBonusCap {
		steps = DailyStreakBonusCap
	}
	return baseXP * steps * DailyStreakBonusPercent / 100
}

type RecurringDraft struct {
	Name         string
	Kind         RecurringKind
	CadenceHours int
	XPReward     int
	Rewards      []Reward
}

func NewRecurringItem(d RecurringDraft) (RecurringItem, error) {
	name, err := normalizeName("name", d.Name)
	if err != nil {
		return RecurringItem{}, err
	}
	if !d.Kind.IsValid() {
		return RecurringItem{}, invalid("kind", "unknown recurring kind %q", d.Kind)
	}
	if d.CadenceHours <= 0 || d.CadenceHours > MaxCadenceHours {
		return RecurringItem{}, invalid("cadence", "must be 1..%d hours, got %d", MaxCadenceHours, d.CadenceHours)
	}
	if err := checkAmount("xp", d.XPReward); err != nil {
		return RecurringItem{}, err
	}
	if err := ValidateRewards(d.Rewards); err != nil {
		return RecurringItem{}, err
	}
	return RecurringItem{
		ID:                uuid.NewString(),
		Name:              name,
		Kind:              d.Kind,
		IdealCadenceHours: d.CadenceHours,
		XPReward:          d.XPReward,
		Rewards:           d.Rewards,
	}, nil
}
