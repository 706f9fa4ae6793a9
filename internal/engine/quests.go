package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTimeLimitMinutes caps a quest time limit at one year.
const MaxTimeLimitMinutes = 365 * 24 * 60

type ObjectiveDraft struct {
	Text     string
	Optional bool
	XPReward int
	Rewards  []Reward
}

type QuestDraft struct {
	Name             string
	Description      string
	Type             QuestType
	Difficulty       Difficulty
	XPReward         int
	GoldReward       int
	Rewards          []Reward
	TimeLimitMinutes int
	TemplateID       string
	Objectives       []ObjectiveDraft
}

// QuestCompletion is the cascade reward released when a quest completes.
type QuestCompletion struct {
	QuestID string
	XP      int
	Gold    int
	Rewards []Reward
}

type ObjectiveCompletion struct {
	Objective    Objective
	QuestStarted bool
	Cascade      *QuestCompletion
}

func normalizeName(field, name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", invalid(field, "is required")
	}
	return n, nil
}

func newObjective(questID string, order int, d ObjectiveDraft) (Objective, error) {
	text, err := normalizeName("objective text", d.Text)
	if err != nil {
		return Objective{}, err
	}
	if err := checkAmount("objective xp", d.XPReward); err != nil {
		return Objective{}, err
	}
	if err := ValidateRewards(d.Rewards); err != nil {
		return Objective{}, err
	}
	return Objective{
		ID:         uuid.NewString(),
		QuestID:    questID,
		Text:       text,
		Order:      order,
		IsRequired: !d.Optional,
		XPReward:   d.XPReward,
		Rewards:    d.Rewards,
	}, nil
}

// NewQuest validates a draft and builds an available quest.
func NewQuest(d QuestDraft, now time.Time) (Quest, error) {
	name, err := normalizeName("quest name", d.Name)
	if err != nil {
		return Quest{}, err
	}
	if d.Type == "" {
		d.Type = QuestSide
	}
	if !d.Type.IsValid() {
		return Quest{}, invalid("quest type", "unknown type %q", d.Type)
	}
	if d.Difficulty == 0 {
		d.Difficulty = DifficultyTrivial
	}
	if !d.Difficulty.IsValid() {
		return Quest{}, invalid("difficulty", "must be 1..5, got %d", d.Difficulty)
	}
	if err := checkAmount("quest xp", d.XPReward); err != nil {
		return Quest{}, err
	}
	if err := checkAmount("quest gold", d.GoldReward); err != nil {
		return Quest{}, err
	}
	if d.TimeLimitMinutes < 0 || d.TimeLimitMinutes > MaxTimeLimitMinutes {
		return Quest{}, invalid("time limit", "must be 0..%d minutes, got %d", MaxTimeLimitMinutes, d.TimeLimitMinutes)
	}
	if err := ValidateRewards(d.Rewards); err != nil {
		return Quest{}, err
	}

	xp := d.XPReward
	if xp == 0 {
		if xp, err = CalculateXP(d.Difficulty); err != nil {
			return Quest{}, err
		}
	}

	q := Quest{
		ID:               uuid.NewString(),
		Name:             name,
		Description:      strings.TrimSpace(d.Description),
		Type:             d.Type,
		Difficulty:       d.Difficulty,
		Status:           QuestAvailable,
		XPReward:         xp,
		GoldReward:       d.GoldReward,
		Rewards:          d.Rewards,
		TimeLimitMinutes: d.TimeLimitMinutes,
		TemplateID:       d.TemplateID,
		CreatedAt:        now,
	}
	for i, od := range d.Objectives {
		o, err := newObjective(q.ID, i+1, od)
		if err != nil {
			return Quest{}, err
		}
		q.Objectives = append(q.Objectives, o)
	}
	return q, nil
}

// AddObjective appends an objective after the current last one.
func AddObjective(q Quest, d ObjectiveDraft) (Quest, Objective, error) {
	if q.Status.IsTerminal() {
		return q, Objective{}, TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status)}
	}
	next := 1
	for _, o := range q.Objectives {
		if o.Order >= next {
			next = o.Order + 1
		}
	}
	o, err := newObjective(q.ID, next, d)
	if err != nil {
		return q, Objective{}, err
	}
	q.Objectives = append(append([]Objective(nil), q.Objectives...), o)
	return q, o, nil
}

// SortObjectives orders objectives by Order, then ID.
func SortObjectives(objs []Objective) {
	sort.SliceStable(objs, func(i, j int) bool {
		if objs[i].Order != objs[j].Order {
			return objs[i].Order < objs[j].Order
		}
		return objs[i].ID < objs[j].ID
	})
}

func transition(q Quest, to QuestStatus) error {
	ok := false
	switch q.Status {
	case QuestAvailable:
		ok = to == QuestActive || to == QuestAbandoned
	case QuestActive:
		ok = to == QuestCompleted || to == QuestFailed || to == QuestAbandoned
	}
	if !ok {
		return TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status), To: string(to)}
	}
	return nil
}

func StartQuest(q Quest, now time.Time) (Quest, error) {
	if q.Status != QuestAvailable {
		return q, TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status), To: string(QuestActive)}
	}
	t := now
	q.Status = QuestActive
	q.StartedAt = &t
	return q, nil
}

func AbandonQuest(q Quest, now time.Time) (Quest, error) {
	if err := transition(q, QuestAbandoned); err != nil {
		return q, err
	}
	t := now
	q.Status = QuestAbandoned
	q.EndedAt = &t
	return q, nil
}

func FailQuest(q Quest, now time.Time) (Quest, error) {
	if err := transition(q, QuestFailed); err != nil {
		return q, err
	}
	t := now
	q.Status = QuestFailed
	q.EndedAt = &t
	return q, nil
}

// Deadline returns when a time-limited quest runs out, if it has started.
func Deadline(q Quest) *time.Time {
	if q.TimeLimitMinutes <= 0 || q.StartedAt == nil {
		return nil
	}
	t := q.StartedAt.Add(time.Duration(q.TimeLimitMinutes) * time.Minute)
	return &t
}

// IsExpired reports whether an active quest has run past its time limit.
func IsExpired(q Quest, now time.Time) bool {
	if q.Status != QuestActive {
		return false
	}
	d := Deadline(q)
	return d != nil && now.After(*d)
}

func incompleteRequired(q Quest) []string {
	var texts []string
	for _, o := range q.Objectives {
		if o.IsRequired && !o.IsCompleted {
			texts = append(texts, o.Text)
		}
	}
	return texts
}

func hasRequired(q Quest) bool {
	for _, o := range q.Objectives {
		if o.IsRequired {
			return true
		}
	}
	return false
}

func markCompleted(q Quest, now time.Time) (Quest, QuestCompletion) {
	t := now
	if q.StartedAt == nil {
		q.StartedAt = &t
	}
	q.Status = QuestCompleted
	q.CompletedAt = &t
	return q, QuestCompletion{QuestID: q.ID, XP: q.XPReward, Gold: q.GoldReward, Rewards: q.Rewards}
}

// CompleteObjective marks one objective done. When it was the last
// incomplete required objective the quest completes and the cascade is
// returned. A completed quest still accepts its optional objectives.
func CompleteObjective(q Quest, objectiveID string, now time.Time) (Quest, ObjectiveCompletion, error) {
	var res ObjectiveCompletion

	idx := -1
	for i := range q.Objectives {
		if q.Objectives[i].ID == objectiveID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return q, res, NotFoundError{Entity: "objective", ID: objectiveID}
	}
	if q.Status == QuestFailed || q.Status == QuestAbandoned {
		return q, res, TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status)}
	}
	if IsExpired(q, now) {
		return q, res, TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status), Rule: ErrQuestExpired}
	}
	if q.Objectives[idx].IsCompleted {
		return q, res, TransitionError{Entity: "objective", ID: objectiveID, From: "completed", Rule: ErrAlreadyCompleted}
	}

	if q.Status == QuestAvailable {
		var err error
		if q, err = StartQuest(q, now); err != nil {
			return q, res, err
		}
		res.QuestStarted = true
	}

	t := now
	objs := append([]Objective(nil), q.Objectives...)
	objs[idx].IsCompleted = true
	objs[idx].CompletedAt = &t
	q.Objectives = objs
	res.Objective = objs[idx]

	if q.Status != QuestCompleted && hasRequired(q) && len(incompleteRequired(q)) == 0 {
		var cascade QuestCompletion
		q, cascade = markCompleted(q, now)
		res.Cascade = &cascade
	}
	return q, res, nil
}

// CompleteQuest is the manual completion path; it is the only way a quest
// without required objectives completes. An available quest is started
// first so completion always passes through active.
func CompleteQuest(q Quest, now time.Time) (Quest, QuestCompletion, error) {
	if q.Status == QuestCompleted {
		return q, QuestCompletion{}, TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status), Rule: ErrAlreadyCompleted}
	}
	if q.Status == QuestAvailable {
		var err error
		if q, err = StartQuest(q, now); err != nil {
			return q, QuestCompletion{}, err
		}
	}
	if err := transition(q, QuestCompleted); err != nil {
		return q, QuestCompletion{}, err
	}
	if IsExpired(q, now) {
		return q, QuestCompletion{}, TransitionError{Entity: "quest", ID: q.ID, From: string(q.Status), Rule: ErrQuestExpired}
	}
	if missing := incompleteRequired(q); len(missing) > 0 {
		return q, QuestCompletion{}, IncompleteObjectivesError{QuestID: q.ID, Objectives: missing}
	}
	q, c := markCompleted(q, now)
	return q, c, nil
}
