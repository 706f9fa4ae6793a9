package engine

import (
	"errors"
	"math"
	"testing"
)

func TestXPForLevel(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 1100, 3: 1210, 4: 1331, 5: 1464}
	for n, want := range cases {
		if got := XPForLevel(n); got != want {
			t.Fatalf("XPForLevel(%d)=%d, want %d", n, got, want)
		}
	}
}

func TestXPBoundaries(t *testing.T) {
	if got := TotalXPForLevel(3); got != 2310 {
		t.Fatalf("TotalXPForLevel(3)=%d, want 2310", got)
	}
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{-5, 1},
		{1099, 1},
		{1100, 2},
		{2309, 2},
		{2310, 3},
		{5000, 4},
	}
	for _, tc := range cases {
		if got := LevelForTotalXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForTotalXP(%d)=%d, want %d", tc.xp, got, tc.want)
		}
	}
	if got, want := TotalXPForLevel(MaxLevel+10), TotalXPForLevel(MaxLevel); got != want {
		t.Fatalf("TotalXPForLevel past max=%d, want %d", got, want)
	}
}

func TestLevelProgress(t *testing.T) {
	into, span := LevelProgress(1500)
	if into != 400 || span != 1210 {
		t.Fatalf("LevelProgress(1500)=(%d,%d), want (400,1210)", into, span)
	}
}

func TestAddXPCrossesSeveralLevels(t *testing.T) {
	c := Character{Level: 1}
	c, change, err := AddXP(c, 5000)
	if err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if c.Level != 4 || c.TotalXP != 5000 {
		t.Fatalf("character=%+v, want level 4 with 5000 XP", c)
	}
	if !change.LeveledUp() || change.LevelsGained() != 3 {
		t.Fatalf("change=%+v, want 3 levels gained", change)
	}

	if _, _, err := AddXP(c, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddXP(0) err=%v, want validation", err)
	}
}

func TestCalculateXP(t *testing.T) {
	want := map[Difficulty]int{
		DifficultyTrivial: 50,
		DifficultyEasy:    100,
		DifficultyMedium:  250,
		DifficultyHard:    500,
		DifficultyEpic:    1250,
	}
	for d, xp := range want {
		got, err := CalculateXP(d)
		if err != nil {
			t.Fatalf("CalculateXP(%d): %v", d, err)
		}
		if got != xp {
			t.Fatalf("CalculateXP(%d)=%d, want %d", d, got, xp)
		}
	}
	if _, err := CalculateXP(9); err == nil {
		t.Fatalf("expected error for difficulty 9")
	}
}

func TestApplyClassBonus(t *testing.T) {
	cases := []struct {
		class  ClassTag
		source XPSource
		want   int
	}{
		{ClassScholar, SourceQuest, 220},
		{ClassScholar, SourceNeed, 200},
		{ClassAthlete, SourceNeed, 220},
		{ClassArtisan, SourceObjective, 220},
		{ClassCaretaker, SourceBuff, 220},
		{ClassWanderer, SourceQuest, 200},
		{ClassScholar, SourceAchievement, 200},
	}
	for _, tc := range cases {
		if got := ApplyClassBonus(tc.class, tc.source, 200); got != tc.want {
			t.Fatalf("ApplyClassBonus(%s,%s,200)=%d, want %d", tc.class, tc.source, got, tc.want)
		}
	}
}

func TestAddXPRejectsOverflow(t *testing.T) {
	c := Character{TotalXP: math.MaxInt/2 + 1}
	c.Level = LevelForTotalXP(c.TotalXP)

	got, change, err := AddXP(c, math.MaxInt/2+1)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v, want validation", err)
	}
	if got.TotalXP != c.TotalXP || got.Level != MaxLevel || change.LeveledUp() {
		t.Fatalf("character changed on overflow: %+v %+v", got, change)
	}
}

func TestApplyClassBonusLargeValues(t *testing.T) {
	if got := ApplyClassBonus(ClassScholar, SourceQuest, 55); got != 60 {
		t.Fatalf("ApplyClassBonus(55)=%d, want 60", got)
	}
	if got := ApplyClassBonus(ClassScholar, SourceQuest, MaxRewardAmount); got != 1_100_000 {
		t.Fatalf("ApplyClassBonus(max reward)=%d, want 1100000", got)
	}
	for _, xp := range []int{math.MaxInt / 100, math.MaxInt / 2, math.MaxInt} {
		if got := ApplyClassBonus(ClassScholar, SourceQuest, xp); got < xp {
			t.Fatalf("ApplyClassBonus(%d)=%d wrapped below the input", xp, got)
		}
	}
}
