// Package catalog loads the static game content: quest templates,
// achievement definitions and the recurring items a new character starts with.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lifeforge/internal/engine"
)

//go:embed default.yaml
var defaultYAML []byte

type Catalog struct {
	Templates    []TemplateEntry    `yaml:"quest_templates"`
	Achievements []AchievementEntry `yaml:"achievements"`
	Needs        []RecurringEntry   `yaml:"needs"`
	Dailies      []RecurringEntry   `yaml:"dailies"`
}

type ObjectiveEntry struct {
	Text     string                `yaml:"text"`
	Optional bool                  `yaml:"optional,omitempty"`
	XP       int                   `yaml:"xp,omitempty"`
	Rewards  []engine.RewardRecord `yaml:"rewards,omitempty"`
}

type TemplateEntry struct {
	ID               string                `yaml:"id"`
	Name             string                `yaml:"name"`
	Description      string                `yaml:"description,omitempty"`
	Type             string                `yaml:"type,omitempty"`
	Difficulty       string                `yaml:"difficulty,omitempty"`
	UnlockLevel      int                   `yaml:"unlock_level,omitempty"`
	Repeatable       bool                  `yaml:"repeatable,omitempty"`
	XP               int                   `yaml:"xp,omitempty"`
	Gold             int                   `yaml:"gold,omitempty"`
	TimeLimitMinutes int                   `yaml:"time_limit_minutes,omitempty"`
	Rewards          []engine.RewardRecord `yaml:"rewards,omitempty"`
	Objectives       []ObjectiveEntry      `yaml:"objectives,omitempty"`
}

type AchievementEntry struct {
	ID          string                `yaml:"id"`
	Name        string                `yaml:"name"`
	Description string                `yaml:"description,omitempty"`
	Category    string                `yaml:"category,omitempty"`
	Counter     string                `yaml:"counter"`
	Required    int                   `yaml:"required"`
	XP          int                   `yaml:"xp,omitempty"`
	Rewards     []engine.RewardRecord `yaml:"rewards,omitempty"`
}

type RecurringEntry struct {
	Name    string                `yaml:"name"`
	Cadence string                `yaml:"cadence"`
	XP      int                   `yaml:"xp"`
	Rewards []engine.RewardRecord `yaml:"rewards,omitempty"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Load reads a catalog file. An empty path yields the embedded default.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate converts every entry once so a bad catalog fails at startup.
func (c *Catalog) Validate() error {
	if _, err := c.QuestTemplates(); err != nil {
		return err
	}
	if _, err := c.AchievementDefs(); err != nil {
		return err
	}
	if _, err := c.SeedItems(); err != nil {
		return err
	}
	return nil
}

func (c *Catalog) QuestTemplates() ([]engine.QuestTemplate, error) {
	seen := map[string]bool{}
	out := make([]engine.QuestTemplate, 0, len(c.Templates))
	for _, e := range c.Templates {
		id := strings.ToLower(strings.TrimSpace(e.ID))
		if id == "" {
			return nil, fmt.Errorf("quest template %q: id is required", e.Name)
		}
		if seen[id] {
			return nil, fmt.Errorf("quest template %q: duplicate id", id)
		}
		seen[id] = true

		d, err := e.draft()
		if err != nil {
			return nil, fmt.Errorf("quest template %q: %w", id, err)
		}
		// Build once to surface validation errors.
		if _, err := engine.NewQuest(d, time.Time{}); err != nil {
			return nil, fmt.Errorf("quest template %q: %w", id, err)
		}
		out = append(out, engine.QuestTemplate{ID: id, UnlockLevel: e.UnlockLevel, Repeatable: e.Repeatable, Draft: d})
	}
	return out, nil
}

func (e TemplateEntry) draft() (engine.QuestDraft, error) {
	qType, err := engine.ParseQuestType(e.Type)
	if err != nil {
		return engine.QuestDraft{}, err
	}
	diff, err := engine.ParseDifficulty(e.Difficulty)
	if err != nil {
		return engine.QuestDraft{}, err
	}
	rewards, err := engine.RewardsFromRecords(e.Rewards)
	if err != nil {
		return engine.QuestDraft{}, err
	}
	d := engine.QuestDraft{
		Name:             e.Name,
		Description:      e.Description,
		Type:             qType,
		Difficulty:       diff,
		XPReward:         e.XP,
		GoldReward:       e.Gold,
		Rewards:          rewards,
		TimeLimitMinutes: e.TimeLimitMinutes,
	}
	for _, o := range e.Objectives {
		r, err := engine.RewardsFromRecords(o.Rewards)
		if err != nil {
			return engine.QuestDraft{}, err
		}
		d.Objectives = append(d.Objectives, engine.ObjectiveDraft{Text: o.Text, Optional: o.Optional, XPReward: o.XP, Rewards: r})
	}
	return d, nil
}

func (c *Catalog) AchievementDefs() ([]engine.AchievementDef, error) {
	seen := map[string]bool{}
	out := make([]engine.AchievementDef, 0, len(c.Achievements))
	for _, e := range c.Achievements {
		if seen[e.ID] {
			return nil, fmt.Errorf("achievement %q: duplicate id", e.ID)
		}
		seen[e.ID] = true
		rewards, err := engine.RewardsFromRecords(e.Rewards)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", e.ID, err)
		}
		def := engine.AchievementDef{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Category:    e.Category,
			Counter:     engine.Counter(e.Counter),
			Required:    e.Required,
			XPReward:    e.XP,
			Rewards:     rewards,
		}
		if _, err := engine.NewAchievement(def); err != nil {
			return nil, fmt.Errorf("achievement %q: %w", e.ID, err)
		}
		out = append(out, def)
	}
	return out, nil
}

// SeedItems lists the needs and dailies given to a new character.
func (c *Catalog) SeedItems() ([]engine.RecurringDraft, error) {
	var out []engine.RecurringDraft
	add := func(kind engine.RecurringKind, entries []RecurringEntry) error {
		for _, e := range entries {
			d, err := e.draft(kind)
			if err != nil {
				return fmt.Errorf("%s %q: %w", kind, e.Name, err)
			}
			out = append(out, d)
		}
		return nil
	}
	if err := add(engine.RecurringNeed, c.Needs); err != nil {
		return nil, err
	}
	if err := add(engine.RecurringDaily, c.Dailies); err != nil {
		return nil, err
	}
	return out, nil
}

func (e RecurringEntry) draft(kind engine.RecurringKind) (engine.RecurringDraft, error) {
	cadence := e.Cadence
	if cadence == "" {
		cadence = "daily"
	}
	hours, err := engine.ParseCadence(cadence)
	if err != nil {
		return engine.RecurringDraft{}, err
	}
	rewards, err := engine.RewardsFromRecords(e.Rewards)
	if err != nil {
		return engine.RecurringDraft{}, err
	}
	d := engine.RecurringDraft{Name: e.Name, Kind: kind, CadenceHours: hours, XPReward: e.XP, Rewards: rewards}
	if _, err := engine.NewRecurringItem(d); err != nil {
		return engine.RecurringDraft{}, err
	}
	return d, nil
}
