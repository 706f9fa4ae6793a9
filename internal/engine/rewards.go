package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

type RewardKind string

const (
	RewardKindXP          RewardKind = "xp"
	RewardKindResource    RewardKind = "resource"
	RewardKindStatBoost   RewardKind = "stat_boost"
	RewardKindSkillCredit RewardKind = "skill_credit"
)

// Reward is a closed set: RewardXP, RewardResource, RewardStatBoost and
// RewardSkillCredit.
type Reward interface {
	Kind() RewardKind
	validate() error
}

type RewardXP struct {
	Amount int
}

type RewardResource struct {
	Resource ResourceKind
	Amount   int
}

type RewardStatBoost struct {
	Stat   Stat
	Amount int
}

type RewardSkillCredit struct {
	Skill  string
	Points int
}

func (RewardXP) Kind() RewardKind          { return RewardKindXP }
func (RewardResource) Kind() RewardKind    { return RewardKindResource }
func (RewardStatBoost) Kind() RewardKind   { return RewardKindStatBoost }
func (RewardSkillCredit) Kind() RewardKind { return RewardKindSkillCredit }

// MaxRewardAmount bounds every single XP, gold, resource, stat and skill award.
const MaxRewardAmount = 1_000_000

func checkAmount(field string, n int) error {
	if n < 0 || n > MaxRewardAmount {
		return invalid(field, "must be 0..%d, got %d", MaxRewardAmount, n)
	}
	return nil
}

func (r RewardXP) validate() error {
	if r.Amount <= 0 {
		return invalid("reward", "xp amount must be > 0")
	}
	return checkAmount("reward xp", r.Amount)
}

func (r RewardResource) validate() error {
	if !r.Resource.IsValid() {
		return invalid("reward", "unknown resource %q", r.Resource)
	}
	if r.Amount == 0 {
		return invalid("reward", "resource amount must be non-zero")
	}
	if r.Amount < -MaxRewardAmount || r.Amount > MaxRewardAmount {
		return invalid("reward", "resource amount must be -%d..%d, got %d", MaxRewardAmount, MaxRewardAmount, r.Amount)
	}
	return nil
}

func (r RewardStatBoost) validate() error {
	if !r.Stat.IsValid() {
		return invalid("reward", "unknown stat %q", r.Stat)
	}
	if r.Amount <= 0 {
		return invalid("reward", "stat boost must be > 0")
	}
	return checkAmount("reward stat boost", r.Amount)
}

func (r RewardSkillCredit) validate() error {
	if strings.TrimSpace(r.Skill) == "" {
		return invalid("reward", "skill name is required")
	}
	if r.Points <= 0 {
		return invalid("reward", "skill points must be > 0")
	}
	return checkAmount("reward skill points", r.Points)
}

func ValidateRewards(rewards []Reward) error {
	for _, r := range rewards {
		if r == nil {
			return invalid("reward", "nil reward")
		}
		if err := r.validate(); err != nil {
			return err
		}
	}
	return nil
}

// RewardRecord is the flat wire form of a Reward used by storage and catalogs.
type RewardRecord struct {
	Kind     RewardKind `json:"kind" yaml:"kind"`
	Amount   int        `json:"amount,omitempty" yaml:"amount,omitempty"`
	Resource string     `json:"resource,omitempty" yaml:"resource,omitempty"`
	Stat     string     `json:"stat,omitempty" yaml:"stat,omitempty"`
	Skill    string     `json:"skill,omitempty" yaml:"skill,omitempty"`
}

func (rec RewardRecord) Reward() (Reward, error) {
	var r Reward
	switch rec.Kind {
	case RewardKindXP:
		r = RewardXP{Amount: rec.Amount}
	case RewardKindResource:
		r = RewardResource{Resource: ResourceKind(rec.Resource), Amount: rec.Amount}
	case RewardKindStatBoost:
		r = RewardStatBoost{Stat: Stat(rec.Stat), Amount: rec.Amount}
	case RewardKindSkillCredit:
		r = RewardSkillCredit{Skill: rec.Skill, Points: rec.Amount}
	default:
		return nil, invalid("reward", "unknown reward kind %q", rec.Kind)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func RecordOf(r Reward) RewardRecord {
	switch v := r.(type) {
	case RewardXP:
		return RewardRecord{Kind: RewardKindXP, Amount: v.Amount}
	case RewardResource:
		return RewardRecord{Kind: RewardKindResource, Amount: v.Amount, Resource: string(v.Resource)}
	case RewardStatBoost:
		return RewardRecord{Kind: RewardKindStatBoost, Amount: v.Amount, Stat: string(v.Stat)}
	case RewardSkillCredit:
		return RewardRecord{Kind: RewardKindSkillCredit, Amount: v.Points, Skill: v.Skill}
	default:
		panic(fmt.Sprintf("engine: unhandled reward type %T", r))
	}
}

func RewardsFromRecords(recs []RewardRecord) ([]Reward, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	out := make([]Reward, 0, len(recs))
	for _, rec := range recs {
		r, err := rec.Reward()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func RecordsOf(rewards []Reward) []RewardRecord {
	if len(rewards) == 0 {
		return nil
	}
	out := make([]RewardRecord, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, RecordOf(r))
	}
	return out
}

// MarshalRewards encodes rewards as a JSON array; nil for none.
func MarshalRewards(rewards []Reward) ([]byte, error) {
	if len(rewards) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(RecordsOf(rewards))
	if err != nil {
		return nil, fmt.Errorf("marshal rewards: %w", err)
	}
	return data, nil
}

func UnmarshalRewards(data []byte) ([]Reward, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var recs []RewardRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal rewards: %w", err)
	}
	return RewardsFromRecords(recs)
}

// rewardBundle is a set of rewards folded into per-kind totals.
type rewardBundle struct {
	XP        int
	Gold      int
	Resources map[ResourceKind]int
	Stats     map[Stat]int
	Skills    map[string]int
}

func (b *rewardBundle) add(rewards []Reward) {
	for _, r := range rewards {
		switch v := r.(type) {
		case RewardXP:
			b.XP += v.Amount
		case RewardResource:
			if b.Resources == nil {
				b.Resources = map[ResourceKind]int{}
			}
			b.Resources[v.Resource] += v.Amount
		case RewardStatBoost:
			if b.Stats == nil {
				b.Stats = map[Stat]int{}
			}
			b.Stats[v.Stat] += v.Amount
		case RewardSkillCredit:
			if b.Skills == nil {
				b.Skills = map[string]int{}
			}
			b.Skills[v.Skill] += v.Points
		}
	}
}
