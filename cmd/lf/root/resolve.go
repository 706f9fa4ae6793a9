package root

import (
	"fmt"
	"strconv"
	"strings"

	"lifeforge/internal/engine"
)

// shortID is the prefix shown in listings; any unique prefix is accepted back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func resolvePrefix(entity, prefix string, ids []string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return "", engine.ValidationError{Field: entity + " id", Reason: "is required"}
	}
	var match string
	for _, id := range ids {
		if id == p {
			return id, nil
		}
		if strings.HasPrefix(id, p) {
			if match != "" {
				return "", engine.ValidationError{Field: entity + " id", Reason: fmt.Sprintf("%q is ambiguous", prefix)}
			}
			match = id
		}
	}
	if match == "" {
		return "", engine.NotFoundError{Entity: entity, ID: prefix}
	}
	return match, nil
}

func resolveQuest(st *engine.State, prefix string) (engine.Quest, error) {
	ids := make([]string, 0, len(st.Quests))
	for _, q := range st.Quests {
		ids = append(ids, q.ID)
	}
	id, err := resolvePrefix("quest", prefix, ids)
	if err != nil {
		return engine.Quest{}, err
	}
	q, _ := st.Quest(id)
	return q, nil
}

// resolveObjective accepts an objective ID prefix or its 1-based position.
func resolveObjective(q engine.Quest, ref string) (engine.Objective, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		for _, o := range q.Objectives {
			if o.Order == n {
				return o, nil
			}
		}
		return engine.Objective{}, engine.NotFoundError{Entity: "objective", ID: ref}
	}
	ids := make([]string, 0, len(q.Objectives))
	for _, o := range q.Objectives {
		ids = append(ids, o.ID)
	}
	id, err := resolvePrefix("objective", ref, ids)
	if err != nil {
		return engine.Objective{}, err
	}
	for _, o := range q.Objectives {
		if o.ID == id {
			return o, nil
		}
	}
	return engine.Objective{}, engine.NotFoundError{Entity: "objective", ID: ref}
}

func resolveRecurring(st *engine.State, kind engine.RecurringKind, ref string) (engine.RecurringItem, error) {
	var ids []string
	for _, it := range st.Recurring {
		if it.Kind != kind {
			continue
		}
		if strings.EqualFold(it.Name, strings.TrimSpace(ref)) {
			return it, nil
		}
		ids = append(ids, it.ID)
	}
	id, err := resolvePrefix(string(kind), ref, ids)
	if err != nil {
		return engine.RecurringItem{}, err
	}
	it, _ := st.RecurringItem(id)
	return it, nil
}

func resolveBuff(st *engine.State, ref string) (engine.Buff, error) {
	var ids []string
	for _, b := range st.Buffs {
		if strings.EqualFold(b.Name, strings.TrimSpace(ref)) {
			return b, nil
		}
		ids = append(ids, b.ID)
	}
	id, err := resolvePrefix("buff", ref, ids)
	if err != nil {
		return engine.Buff{}, err
	}
	for _, b := range st.Buffs {
		if b.ID == id {
			return b, nil
		}
	}
	return engine.Buff{}, engine.NotFoundError{Entity: "buff", ID: ref}
}
