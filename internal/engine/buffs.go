package engine

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxStacks caps StackCount; re-activating at the cap still refreshes expiry.
const MaxStacks = 5

var buffBaseXP = map[BuffKind]int{
	BuffSelfCare: 15,
	BuffRest:     10,
	BuffFocus:    10,
	BuffSocial:   12,
	BuffCreative: 12,
	BuffExercise: 15,
}

// MaxBuffMinutes caps a single activation at one week.
const MaxBuffMinutes = 7 * 24 * 60

// BuffXP is floor(base * max(1, minutes/60)).
func BuffXP(kind BuffKind, durationMinutes int) int {
	base := buffBaseXP[kind]
	hours := math.Max(1, float64(durationMinutes)/60)
	return int(math.Floor(float64(base) * hours))
}

type BuffRequest struct {
	Name            string
	Kind            BuffKind
	StatBoost       map[Stat]int
	DurationMinutes int
}

func (r BuffRequest) validate() (string, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "", invalid("name", "buff name is required")
	}
	if !r.Kind.IsValid() {
		return "", invalid("kind", "unknown buff kind %q", r.Kind)
	}
	if r.DurationMinutes <= 0 || r.DurationMinutes > MaxBuffMinutes {
		return "", invalid("duration_minutes", "must be 1..%d, got %d", MaxBuffMinutes, r.DurationMinutes)
	}
	for stat, n := range r.StatBoost {
		if !stat.IsValid() {
			return "", invalid("stat_boost", "unknown stat %q", stat)
		}
		if err := checkAmount("stat_boost", n); err != nil {
			return "", err
		}
	}
	return name, nil
}

type BuffEvent struct {
	Buff    Buff
	Stacked bool
}

func isLive(b Buff, now time.Time) bool {
	return b.ExpiresAt.After(now)
}

// ActivateBuff adds a buff or, if one with the same name is live, stacks it
// and restarts its expiry from now.
func ActivateBuff(buffs []Buff, req BuffRequest, now time.Time) ([]Buff, BuffEvent, error) {
	name, err := req.validate()
	if err != nil {
		return buffs, BuffEvent{}, err
	}
	expires := now.Add(time.Duration(req.DurationMinutes) * time.Minute)

	for i := range buffs {
		if !strings.EqualFold(buffs[i].Name, name) || !isLive(buffs[i], now) {
			continue
		}
		b := buffs[i]
		if b.StackCount < MaxStacks {
			b.StackCount++
		}
		b.ExpiresAt = expires
		b.DurationMinutes = req.DurationMinutes
		b.IsActive = true
		out := append([]Buff(nil), buffs...)
		out[i] = b
		return out, BuffEvent{Buff: b, Stacked: true}, nil
	}

	b := Buff{
		ID:              uuid.NewString(),
		Name:            name,
		Kind:            req.Kind,
		StatBoost:       copyStatMap(req.StatBoost),
		StackCount:      1,
		DurationMinutes: req.DurationMinutes,
		ActivatedAt:     now,
		ExpiresAt:       expires,
		IsActive:        true,
	}
	out := append(append([]Buff(nil), buffs...), b)
	return out, BuffEvent{Buff: b}, nil
}

// DeactivateBuff ends a live buff at now.
func DeactivateBuff(buffs []Buff, buffID string, now time.Time) ([]Buff, error) {
	for i := range buffs {
		if buffs[i].ID != buffID {
			continue
		}
		if !isLive(buffs[i], now) {
			return buffs, TransitionError{Entity: "buff", ID: buffID, From: "expired", Rule: ErrBuffExpired}
		}
		out := append([]Buff(nil), buffs...)
		out[i].ExpiresAt = now
		out[i].IsActive = false
		return out, nil
	}
	return buffs, NotFoundError{Entity: "buff", ID: buffID}
}

// ActiveBuffs filters by expiry only; the stored IsActive flag is advisory.
func ActiveBuffs(buffs []Buff, now time.Time) []Buff {
	var out []Buff
	for _, b := range buffs {
		if isLive(b, now) {
			out = append(out, b)
		}
	}
	return out
}

// PruneExpired drops buffs that expired before now and reports how many went.
func PruneExpired(buffs []Buff, now time.Time) ([]Buff, int) {
	out := make([]Buff, 0, len(buffs))
	for _, b := range buffs {
		if isLive(b, now) {
			out = append(out, b)
		}
	}
	return out, len(buffs) - len(out)
}

// EffectiveStats is base stats plus every live boost times its stack count.
func EffectiveStats(c Character, buffs []Buff, now time.Time) map[Stat]int {
	out := copyStatMap(c.Stats)
	if out == nil {
		out = map[Stat]int{}
	}
	for _, b := range ActiveBuffs(buffs, now) {
		for stat, v := range b.StatBoost {
			out[stat] += v * b.StackCount
		}
	}
	return out
}

func copyStatMap(in map[Stat]int) map[Stat]int {
	if in == nil {
		return nil
	}
	out := make(map[Stat]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
