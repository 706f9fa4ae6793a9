package engine

import (
	"fmt"
	"strings"
	"time"
)

type TemplateStatus string

const (
	TemplateLocked    TemplateStatus = "locked"
	TemplateAvailable TemplateStatus = "available"
	TemplateActive    TemplateStatus = "active"
	TemplateCompleted TemplateStatus = "completed"
)

// QuestTemplate is a catalog quest a character can accept once unlocked.
type QuestTemplate struct {
	ID          string
	UnlockLevel int
	Repeatable  bool
	Draft       QuestDraft
}

func normalizeTemplateID(id string) (string, error) {
	c := strings.TrimSpace(strings.ToLower(id))
	if c == "" {
		return "", invalid("template id", "is required")
	}
	return c, nil
}

func (t QuestTemplate) requiredLevel() int {
	req := t.UnlockLevel
	if lvl, ok := DifficultyUnlockLevels[t.Draft.Difficulty]; ok && lvl > req {
		req = lvl
	}
	return req
}

// TemplateStatusFor derives a template's status from the character's quests.
func TemplateStatusFor(s *State, t QuestTemplate) TemplateStatus {
	if s.Character.Level < t.requiredLevel() {
		return TemplateLocked
	}
	completed := false
	for _, q := range s.Quests {
		if q.TemplateID != t.ID {
			continue
		}
		if !q.Status.IsTerminal() {
			return TemplateActive
		}
		if q.Status == QuestCompleted {
			completed = true
		}
	}
	if completed && !t.Repeatable {
		return TemplateCompleted
	}
	return TemplateAvailable
}

// AvailableTemplates lists the templates the character could accept right now.
func AvailableTemplates(s *State, templates []QuestTemplate) []QuestTemplate {
	var out []QuestTemplate
	for _, t := range templates {
		if TemplateStatusFor(s, t) == TemplateAvailable {
			out = append(out, t)
		}
	}
	return out
}

// AcceptTemplate instantiates an available template as a new quest.
func (o Orchestrator) AcceptTemplate(s *State, templates []QuestTemplate, id string, now time.Time) (*State, Quest, error) {
	code, err := normalizeTemplateID(id)
	if err != nil {
		return s, Quest{}, err
	}

	var tmpl *QuestTemplate
	for i := range templates {
		if strings.EqualFold(templates[i].ID, code) {
			tmpl = &templates[i]
			break
		}
	}
	if tmpl == nil {
		return s, Quest{}, NotFoundError{Entity: "template", ID: code}
	}

	switch st := TemplateStatusFor(s, *tmpl); st {
	case TemplateAvailable:
	case TemplateLocked:
		return s, Quest{}, GateError{Feature: fmt.Sprintf("template %s", tmpl.ID), RequiredLevel: tmpl.requiredLevel()}
	default:
		return s, Quest{}, TransitionError{Entity: "template", ID: tmpl.ID, From: string(st), To: string(TemplateActive)}
	}

	d := tmpl.Draft
	d.TemplateID = tmpl.ID
	d.Objectives = append([]ObjectiveDraft(nil), tmpl.Draft.Objectives...)
	return o.CreateQuest(s, d, now)
}
