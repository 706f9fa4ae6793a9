package engine

import (
	"errors"
	"testing"
)

func TestParseInputs(t *testing.T) {
	if c, err := ParseClass(""); err != nil || c != DefaultClass {
		t.Fatalf("ParseClass(\"\")=%q,%v", c, err)
	}
	if c, err := ParseClass(" Scholar "); err != nil || c != ClassScholar {
		t.Fatalf("ParseClass(Scholar)=%q,%v", c, err)
	}
	if k, err := ParseResourceKind("nrg"); err != nil || k != ResourceEnergy {
		t.Fatalf("ParseResourceKind(nrg)=%q,%v", k, err)
	}
	if k, err := ParseBuffKind("self-care"); err != nil || k != BuffSelfCare {
		t.Fatalf("ParseBuffKind(self-care)=%q,%v", k, err)
	}
	if d, err := ParseDifficulty("hard"); err != nil || d != DifficultyHard {
		t.Fatalf("ParseDifficulty(hard)=%d,%v", d, err)
	}
	if d, err := ParseDifficulty("5"); err != nil || d != DifficultyEpic {
		t.Fatalf("ParseDifficulty(5)=%d,%v", d, err)
	}

	for name, fn := range map[string]func() error{
		"class":      func() error { _, err := ParseClass("bard"); return err },
		"resource":   func() error { _, err := ParseResourceKind("mana"); return err },
		"stat":       func() error { _, err := ParseStat("luck"); return err },
		"difficulty": func() error { _, err := ParseDifficulty("6"); return err },
		"quest type": func() error { _, err := ParseQuestType("chore"); return err },
	} {
		if err := fn(); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: err=%v, want validation", name, err)
		}
	}
}

func TestParseStatBoosts(t *testing.T) {
	got, err := ParseStatBoosts("str=2, wis=1,str=1")
	if err != nil {
		t.Fatalf("ParseStatBoosts: %v", err)
	}
	if got[StatStrength] != 3 || got[StatWisdom] != 1 || len(got) != 2 {
		t.Fatalf("boosts=%v", got)
	}
	if got, err := ParseStatBoosts(""); err != nil || got != nil {
		t.Fatalf("empty input=%v,%v", got, err)
	}
	for _, in := range []string{"str", "str=x", "luck=1"} {
		if _, err := ParseStatBoosts(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("ParseStatBoosts(%q) err=%v, want validation", in, err)
		}
	}
}

func TestUnmarshalRewardsRejectsUnknownKind(t *testing.T) {
	if _, err := UnmarshalRewards([]byte(`[{"kind":"loot","amount":1}]`)); !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v, want validation", err)
	}
	rs, err := UnmarshalRewards([]byte(`[{"kind":"stat_boost","stat":"wisdom","amount":2}]`))
	if err != nil || len(rs) != 1 {
		t.Fatalf("rewards=%v err=%v", rs, err)
	}
	if sb, ok := rs[0].(RewardStatBoost); !ok || sb.Stat != StatWisdom || sb.Amount != 2 {
		t.Fatalf("reward=%#v", rs[0])
	}
}
