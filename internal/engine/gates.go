package engine

import "fmt"

// DifficultyUnlockLevels maps quest difficulty tiers to the character level required.
// Characters start with tier 1 only. Higher tiers unlock as they level up.
var DifficultyUnlockLevels = map[Difficulty]int{
	DifficultyTrivial: 1,
	DifficultyEasy:    2,
	DifficultyMedium:  5,
	DifficultyHard:    8,
	DifficultyEpic:    12,
}

// MaxDifficultyForLevel returns the highest tier available at the given level.
func MaxDifficultyForLevel(level int) Difficulty {
	max := DifficultyTrivial
	for diff, req := range DifficultyUnlockLevels {
		if level >= req && diff > max {
			max = diff
		}
	}
	return max
}

// CanUseDifficulty returns an error if the character level is too low for the requested tier.
func CanUseDifficulty(level int, difficulty Difficulty) error {
	reqLevel, ok := DifficultyUnlockLevels[difficulty]
	if !ok {
		return invalid("difficulty", "must be 1..5, got %d", difficulty)
	}
	if level < reqLevel {
		return DifficultyGateError{
			Difficulty:    difficulty,
			RequiredLevel: reqLevel,
			CurrentLevel:  level,
		}
	}
	return nil
}

// DifficultyGateError is returned when a character tries to take a locked tier.
type DifficultyGateError struct {
	Difficulty    Difficulty
	RequiredLevel int
	CurrentLevel  int
}

func (e DifficultyGateError) Error() string {
	return fmt.Sprintf("difficulty %d requires level %d (currently %d)", e.Difficulty, e.RequiredLevel, e.CurrentLevel)
}

func (e DifficultyGateError) Is(target error) bool { return target == ErrLocked }

// MaxOpenQuests returns how many available or active quests a character may hold.
func MaxOpenQuests(level int) int {
	switch {
	case level >= 5:
		return 12
	case level >= 2:
		return 8
	default:
		return 5
	}
}

type CapacityError struct {
	Limit int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("too many open quests (limit %d)", e.Limit)
}

func (e CapacityError) Is(target error) bool { return target == ErrLocked }

func countOpenQuests(quests []Quest) int {
	n := 0
	for _, q := range quests {
		if !q.Status.IsTerminal() {
			n++
		}
	}
	return n
}
