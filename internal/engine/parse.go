package engine

import (
	"strconv"
	"strings"
)

func clean(input string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(input)), "-", "_")
}

// ParseClass parses user input to a ClassTag. Empty input yields DefaultClass.
func ParseClass(input string) (ClassTag, error) {
	s := clean(input)
	if s == "" {
		return DefaultClass, nil
	}
	c := ClassTag(s)
	if !c.IsValid() {
		return "", invalid("class", "unknown class %q", input)
	}
	return c, nil
}

// ParseResourceKind accepts the pool name or a short alias.
func ParseResourceKind(input string) (ResourceKind, error) {
	switch clean(input) {
	case "energy", "nrg", "e":
		return ResourceEnergy, nil
	case "focus", "f":
		return ResourceFocus, nil
	case "motivation", "mot", "m":
		return ResourceMotivation, nil
	case "spoons", "spoon", "s":
		return ResourceSpoons, nil
	default:
		return "", invalid("resource", "unknown resource %q", input)
	}
}

func ParseStat(input string) (Stat, error) {
	switch clean(input) {
	case "str", "strength":
		return StatStrength, nil
	case "int", "intellect", "intelligence":
		return StatIntellect, nil
	case "wis", "wisdom":
		return StatWisdom, nil
	case "cha", "charisma":
		return StatCharisma, nil
	case "cre", "creativity", "art":
		return StatCreativity, nil
	case "vit", "vitality":
		return StatVitality, nil
	default:
		return "", invalid("stat", "unknown stat %q", input)
	}
}

func ParseBuffKind(input string) (BuffKind, error) {
	s := clean(input)
	switch s {
	case "selfcare", "self_care", "care":
		return BuffSelfCare, nil
	case "workout", "exercise":
		return BuffExercise, nil
	}
	k := BuffKind(s)
	if !k.IsValid() {
		return "", invalid("buff kind", "unknown kind %q", input)
	}
	return k, nil
}

// ParseQuestType parses user input to a QuestType. Empty input yields side.
func ParseQuestType(input string) (QuestType, error) {
	s := clean(input)
	if s == "" {
		return QuestSide, nil
	}
	t := QuestType(s)
	if !t.IsValid() {
		return "", invalid("quest type", "unknown type %q", input)
	}
	return t, nil
}

// ParseDifficulty accepts 1..5 or trivial, easy, medium, hard, epic.
func ParseDifficulty(input string) (Difficulty, error) {
	s := clean(input)
	switch s {
	case "", "trivial":
		return DifficultyTrivial, nil
	case "easy":
		return DifficultyEasy, nil
	case "medium", "normal":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	case "epic":
		return DifficultyEpic, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Difficulty(n).IsValid() {
		return 0, invalid("difficulty", "%q is not 1..5 or a tier name", input)
	}
	return Difficulty(n), nil
}

// ParseStatBoosts parses "str=2,wis=1" into a stat boost map.
func ParseStatBoosts(input string) (map[Stat]int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}
	out := map[Stat]int{}
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, invalid("stat boost", "%q must look like stat=amount", part)
		}
		stat, err := ParseStat(k)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, invalid("stat boost", "%q is not a number", v)
		}
		out[stat] += n
	}
	return out, nil
}
