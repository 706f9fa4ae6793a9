package engine

import (
	"fmt"
	"math"
)

const (
	// BaseLevelXP is the XP needed to go from level 1 to level 2.
	BaseLevelXP = 1000.0

	// LevelGrowth compounds the per-level cost.
	LevelGrowth = 1.1

	// MaxLevel keeps cumulative thresholds inside int range.
	MaxLevel = 300

	// QuestBaseXP is the base XP used with difficulty multipliers.
	QuestBaseXP = 50.0

	// ClassBonusPercent is the extra XP share for a class's favoured source.
	ClassBonusPercent = 10
)

var totalXPTable = buildTotalXPTable()

func buildTotalXPTable() []int {
	table := make([]int, MaxLevel+1)
	for n := 2; n <= MaxLevel; n++ {
		table[n] = table[n-1] + XPForLevel(n)
	}
	return table
}

// XPForLevel returns the XP needed to advance from level n-1 into level n.
// Level 1 costs nothing.
func XPForLevel(n int) int {
	if n <= 1 {
		return 0
	}
	req := BaseLevelXP * math.Pow(LevelGrowth, float64(n-1))
	// Nudge up so exact products like 1000*1.1 don't floor to 1099.
	return int(math.Floor(req + 1e-6))
}

// TotalXPForLevel returns the cumulative XP threshold for reaching level n.
func TotalXPForLevel(n int) int {
	if n <= 1 {
		return 0
	}
	if n > MaxLevel {
		n = MaxLevel
	}
	return totalXPTable[n]
}

// LevelForTotalXP returns the highest level L such that totalXP >= TotalXPForLevel(L).
func LevelForTotalXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}

	low := 1
	high := MaxLevel + 1
	for low+1 < high {
		mid := low + (high-low)/2
		if TotalXPForLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// LevelProgress reports how far totalXP is into its current level.
func LevelProgress(totalXP int) (into int, span int) {
	lvl := LevelForTotalXP(totalXP)
	if lvl >= MaxLevel {
		return 0, 0
	}
	cur := TotalXPForLevel(lvl)
	return totalXP - cur, TotalXPForLevel(lvl+1) - cur
}

// LevelChange describes the effect of one XP award.
type LevelChange struct {
	Before int
	After  int
}

func (c LevelChange) LeveledUp() bool { return c.After > c.Before }

func (c LevelChange) LevelsGained() int {
	if c.After <= c.Before {
		return 0
	}
	return c.After - c.Before
}

// AddXP credits amount to the character and recomputes the level.
// A single award may cross several thresholds.
func AddXP(c Character, amount int) (Character, LevelChange, error) {
	if amount <= 0 {
		return c, LevelChange{Before: c.Level, After: c.Level}, invalid("xp", "amount must be positive, got %d", amount)
	}
	if amount > math.MaxInt-c.TotalXP {
		return c, LevelChange{Before: c.Level, After: c.Level}, invalid("xp", "award of %d overflows total %d", amount, c.TotalXP)
	}
	before := c.Level
	c.TotalXP += amount
	c.Level = LevelForTotalXP(c.TotalXP)
	return c, LevelChange{Before: before, After: c.Level}, nil
}

func difficultyMultiplier(d Difficulty) (float64, error) {
	switch d {
	case DifficultyTrivial:
		return 1.0, nil
	case DifficultyEasy:
		return 2.0, nil
	case DifficultyMedium:
		return 5.0, nil
	case DifficultyHard:
		return 10.0, nil
	case DifficultyEpic:
		return 25.0, nil
	default:
		return 0, fmt.Errorf("invalid difficulty: %d", d)
	}
}

// CalculateXP computes the default quest XP for a difficulty tier.
// The value is frozen at quest creation time.
func CalculateXP(d Difficulty) (int, error) {
	mult, err := difficultyMultiplier(d)
	if err != nil {
		return 0, err
	}
	return int(math.Round(QuestBaseXP * mult)), nil
}

// XPSource names where a direct XP award came from.
type XPSource string

const (
	SourceObjective   XPSource = "objective"
	SourceQuest       XPSource = "quest"
	SourceNeed        XPSource = "need"
	SourceDaily       XPSource = "daily"
	SourceBuff        XPSource = "buff"
	SourceAchievement XPSource = "achievement"
)

var classFavoured = map[ClassTag]XPSource{
	ClassScholar:   SourceQuest,
	ClassAthlete:   SourceNeed,
	ClassArtisan:   SourceObjective,
	ClassCaretaker: SourceBuff,
}

// ApplyClassBonus boosts xp when source is the class's favoured source.
// Achievement XP is never boosted.
func ApplyClassBonus(class ClassTag, source XPSource, xp int) int {
	if xp <= 0 || source == SourceAchievement {
		return xp
	}
	if classFavoured[class] != source {
		return xp
	}
	// Split at 100 so the multiply cannot overflow before the divide.
	const pct = 100 + ClassBonusPercent
	q, r := xp/100, xp%100
	if q > (math.MaxInt-pct)/pct {
		return math.MaxInt
	}
	return q*pct + r*pct/100
}
