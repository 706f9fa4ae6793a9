package engine

import (
	"errors"
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestSpendAndGainClamp(t *testing.T) {
	p := ResourcePool{Kind: ResourceEnergy, Current: 10, Max: 100}

	p, err := Spend(p, 30)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if p.Current != 0 {
		t.Fatalf("after overspend current=%d, want 0", p.Current)
	}

	p, err = Gain(p, 250)
	if err != nil {
		t.Fatalf("Gain: %v", err)
	}
	if p.Current != 100 {
		t.Fatalf("after overgain current=%d, want 100", p.Current)
	}

	if _, err := Spend(p, -1); !errors.Is(err, ErrValidation) {
		t.Fatalf("Spend(-1) err=%v, want validation", err)
	}
	if _, err := SetMax(p, -1); !errors.Is(err, ErrValidation) {
		t.Fatalf("SetMax(-1) err=%v, want validation", err)
	}
	p, _ = SetMax(p, 40)
	if p.Current != 40 {
		t.Fatalf("after SetMax(40) current=%d, want 40", p.Current)
	}
}

func TestApplyDelta(t *testing.T) {
	p := ResourcePool{Kind: ResourceFocus, Current: 100, Max: 100}
	p, d, err := ApplyDelta(p, -30)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if p.Current != 70 || d.Before != 100 || d.After != 70 || d.Requested != -30 || d.Applied() != -30 {
		t.Fatalf("pool=%+v delta=%+v", p, d)
	}

	_, d, _ = ApplyDelta(p, 50)
	if d.Requested != 50 || d.Applied() != 30 {
		t.Fatalf("capped gain delta=%+v, want requested 50 applied 30", d)
	}
}

func TestRegenerate(t *testing.T) {
	p := ResourcePool{Kind: ResourceEnergy, Current: 50, Max: 100, RegenRatePerHour: 10}
	p, err := Regenerate(p, 1.5)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if p.Current != 65 {
		t.Fatalf("current=%d, want 65", p.Current)
	}
	if _, err := Regenerate(p, -1); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative hours err=%v, want validation", err)
	}
}

func TestRegenerateUntilKeepsRemainder(t *testing.T) {
	p := ResourcePool{Kind: ResourceEnergy, Current: 50, Max: 100, RegenRatePerHour: 10, LastUpdated: t0}

	p = RegenerateUntil(p, t0.Add(10*time.Minute))
	if p.Current != 51 {
		t.Fatalf("after 10m current=%d, want 51", p.Current)
	}
	p = RegenerateUntil(p, t0.Add(20*time.Minute))
	if p.Current != 53 {
		t.Fatalf("after 20m current=%d, want 53", p.Current)
	}
}

func TestRegenerateUntilCapsAtMax(t *testing.T) {
	p := ResourcePool{Kind: ResourceEnergy, Current: 95, Max: 100, RegenRatePerHour: 10, LastUpdated: t0}
	now := t0.Add(2 * time.Hour)
	p = RegenerateUntil(p, now)
	if p.Current != 100 || !p.LastUpdated.Equal(now) {
		t.Fatalf("pool=%+v, want full and stamped at now", p)
	}

	// Clock going backwards is ignored.
	back := RegenerateUntil(p, t0)
	if back.Current != 100 || !back.LastUpdated.Equal(now) {
		t.Fatalf("pool=%+v after earlier now", back)
	}
}

func TestStartingPools(t *testing.T) {
	pools := StartingPools(ClassScholar, t0)
	if len(pools) != len(ResourceKinds) {
		t.Fatalf("got %d pools, want %d", len(pools), len(ResourceKinds))
	}
	focus := pools[ResourceFocus]
	if focus.Max != 120 || focus.Current != 120 || focus.RegenRatePerHour != 10 {
		t.Fatalf("scholar focus=%+v", focus)
	}
	if e := pools[ResourceEnergy]; e.Max != 100 {
		t.Fatalf("energy max=%d, want 100", e.Max)
	}
	if s := pools[ResourceSpoons]; s.Max != 12 {
		t.Fatalf("spoons max=%d, want 12", s.Max)
	}
}

func TestPoolStaysInBoundsAcrossOperations(t *testing.T) {
	steps := []struct {
		name string
		op   func(ResourcePool) (ResourcePool, error)
	}{
		{"gain max int", func(p ResourcePool) (ResourcePool, error) { return Gain(p, math.MaxInt) }},
		{"spend 30", func(p ResourcePool) (ResourcePool, error) { return Spend(p, 30) }},
		{"regen forever", func(p ResourcePool) (ResourcePool, error) { return Regenerate(p, math.Inf(1)) }},
		{"spend max int", func(p ResourcePool) (ResourcePool, error) { return Spend(p, math.MaxInt) }},
		{"shrink max", func(p ResourcePool) (ResourcePool, error) { return SetMax(p, 20) }},
		{"gain 5", func(p ResourcePool) (ResourcePool, error) { return Gain(p, 5) }},
		{"grow max", func(p ResourcePool) (ResourcePool, error) { return SetMax(p, math.MaxInt) }},
		{"regen 2h", func(p ResourcePool) (ResourcePool, error) { return Regenerate(p, 2) }},
		{"gain max int again", func(p ResourcePool) (ResourcePool, error) { return Gain(p, math.MaxInt) }},
		{"delta min int", func(p ResourcePool) (ResourcePool, error) {
			p, _, err := ApplyDelta(p, math.MinInt+1)
			return p, err
		}},
		{"delta max int", func(p ResourcePool) (ResourcePool, error) {
			p, _, err := ApplyDelta(p, math.MaxInt)
			return p, err
		}},
	}

	p := ResourcePool{Kind: ResourceEnergy, Current: 50, Max: 100, RegenRatePerHour: 10}
	for _, st := range steps {
		next, err := st.op(p)
		if err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		if next.Current < 0 || next.Current > next.Max {
			t.Fatalf("%s: current=%d max=%d out of bounds", st.name, next.Current, next.Max)
		}
		p = next
	}
	if p.Current != p.Max {
		t.Fatalf("final current=%d, want full pool %d", p.Current, p.Max)
	}
}

func TestGainFillsOnHugeAmount(t *testing.T) {
	p, err := Gain(ResourcePool{Current: 50, Max: 100}, math.MaxInt)
	if err != nil {
		t.Fatalf("Gain: %v", err)
	}
	if p.Current != 100 {
		t.Fatalf("current=%d, want 100", p.Current)
	}
}
