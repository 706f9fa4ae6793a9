package engine

import (
	"math"
	"time"
)

// ResourceDelta reports one clamped pool change.
type ResourceDelta struct {
	Kind      ResourceKind
	Requested int
	Before    int
	After     int
}

// Applied is the change that actually landed after clamping.
func (d ResourceDelta) Applied() int { return d.After - d.Before }

func clampPool(p ResourcePool) ResourcePool {
	if p.Max < 0 {
		p.Max = 0
	}
	if p.Current > p.Max {
		p.Current = p.Max
	}
	if p.Current < 0 {
		p.Current = 0
	}
	return p
}

// Spend removes amount from the pool, stopping at zero.
func Spend(p ResourcePool, amount int) (ResourcePool, error) {
	if amount < 0 {
		return p, invalid("amount", "spend amount must be >= 0, got %d", amount)
	}
	p = clampPool(p)
	if amount >= p.Current {
		p.Current = 0
	} else {
		p.Current -= amount
	}
	return p, nil
}

// Gain adds amount to the pool, stopping at Max.
func Gain(p ResourcePool, amount int) (ResourcePool, error) {
	if amount < 0 {
		return p, invalid("amount", "gain amount must be >= 0, got %d", amount)
	}
	return addCapped(clampPool(p), amount), nil
}

// addCapped adds a non-negative amount to a clamped pool without overflowing.
func addCapped(p ResourcePool, amount int) ResourcePool {
	if amount >= p.Max-p.Current {
		p.Current = p.Max
	} else {
		p.Current += amount
	}
	return p
}

func SetMax(p ResourcePool, newMax int) (ResourcePool, error) {
	if newMax < 0 {
		return p, invalid("max", "must be >= 0, got %d", newMax)
	}
	p.Max = newMax
	return clampPool(p), nil
}

// Regenerate adds floor(rate * elapsedHours), capped at Max.
func Regenerate(p ResourcePool, elapsedHours float64) (ResourcePool, error) {
	if elapsedHours < 0 || math.IsNaN(elapsedHours) {
		return p, invalid("elapsed_hours", "must be >= 0, got %v", elapsedHours)
	}
	return addCapped(clampPool(p), regenUnits(p.RegenRatePerHour, elapsedHours)), nil
}

func regenUnits(rate, hours float64) int {
	if rate <= 0 || hours <= 0 {
		return 0
	}
	v := math.Floor(rate * hours)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// RegenerateUntil regenerates from LastUpdated up to now. LastUpdated only
// advances by the time that produced whole units, so frequent calls keep the
// fractional remainder.
func RegenerateUntil(p ResourcePool, now time.Time) ResourcePool {
	if p.LastUpdated.IsZero() || !now.After(p.LastUpdated) {
		if p.LastUpdated.IsZero() {
			p.LastUpdated = now
		}
		return p
	}
	if p.Current >= p.Max || p.RegenRatePerHour <= 0 {
		p.LastUpdated = now
		return clampPool(p)
	}

	gained := regenUnits(p.RegenRatePerHour, hoursBetween(p.LastUpdated, now))
	if gained == 0 {
		return p
	}
	room := p.Max - p.Current
	if gained >= room {
		p.Current = p.Max
		p.LastUpdated = now
		return p
	}
	p.Current += gained
	consumed := time.Duration(float64(gained) / p.RegenRatePerHour * float64(time.Hour))
	p.LastUpdated = p.LastUpdated.Add(consumed)
	if p.LastUpdated.After(now) {
		p.LastUpdated = now
	}
	return p
}

// ApplyDelta routes a signed change to Spend or Gain.
func ApplyDelta(p ResourcePool, amount int) (ResourcePool, ResourceDelta, error) {
	d := ResourceDelta{Kind: p.Kind, Requested: amount, Before: p.Current}
	var err error
	if amount < 0 {
		p, err = Spend(p, -amount)
	} else {
		p, err = Gain(p, amount)
	}
	if err != nil {
		return p, d, err
	}
	d.After = p.Current
	return p, d, nil
}

type poolProfile struct {
	max  int
	rate float64
}

var basePools = map[ResourceKind]poolProfile{
	ResourceEnergy:     {max: 100, rate: 10},
	ResourceFocus:      {max: 100, rate: 8},
	ResourceMotivation: {max: 100, rate: 5},
	ResourceSpoons:     {max: 12, rate: 0.5},
}

var classPoolBonus = map[ClassTag]map[ResourceKind]poolProfile{
	ClassScholar:   {ResourceFocus: {max: 20, rate: 2}},
	ClassAthlete:   {ResourceEnergy: {max: 20, rate: 2}},
	ClassArtisan:   {ResourceMotivation: {max: 20, rate: 1}},
	ClassCaretaker: {ResourceSpoons: {max: 3, rate: 0.25}},
}

// StartingPools returns full pools for a freshly created character of class.
func StartingPools(class ClassTag, now time.Time) map[ResourceKind]ResourcePool {
	pools := make(map[ResourceKind]ResourcePool, len(ResourceKinds))
	for _, kind := range ResourceKinds {
		prof := basePools[kind]
		if bonus, ok := classPoolBonus[class][kind]; ok {
			prof.max += bonus.max
			prof.rate += bonus.rate
		}
		pools[kind] = ResourcePool{
			Kind:             kind,
			Current:          prof.max,
			Max:              prof.max,
			RegenRatePerHour: prof.rate,
			LastUpdated:      now,
		}
	}
	return pools
}
