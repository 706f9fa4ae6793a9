package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrNotFound             = errors.New("not found")
	ErrIncompleteObjectives = errors.New("required objectives incomplete")
	ErrLocked               = errors.New("locked")

	// Rules carried by a TransitionError.
	ErrAlreadySatisfied = errors.New("already satisfied this period")
	ErrAlreadyCompleted = errors.New("already completed")
	ErrQuestExpired     = errors.New("time limit exceeded")
	ErrBuffExpired      = errors.New("buff already expired")
	ErrAlreadyExists    = errors.New("already exists")
)

// ValidationError reports a caller-supplied value outside its allowed domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// TransitionError reports an operation that is illegal in the entity's current state.
type TransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
	Rule   error
}

func (e TransitionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Entity, e.ID)
	if e.From != "" && e.To != "" {
		fmt.Fprintf(&b, ": cannot move from %s to %s", e.From, e.To)
	} else if e.From != "" {
		fmt.Fprintf(&b, ": not allowed while %s", e.From)
	}
	if e.Rule != nil {
		fmt.Fprintf(&b, " (%s)", e.Rule)
	}
	return b.String()
}

func (e TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func (e TransitionError) Unwrap() error { return e.Rule }

// IncompleteObjectivesError lists the required objectives still blocking a quest.
type IncompleteObjectivesError struct {
	QuestID    string
	Objectives []string
}

func (e IncompleteObjectivesError) Error() string {
	return fmt.Sprintf("quest %s has incomplete required objectives: %s", e.QuestID, strings.Join(e.Objectives, ", "))
}

func (e IncompleteObjectivesError) Is(target error) bool { return target == ErrIncompleteObjectives }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// GateError indicates a feature is locked behind a required global level.
// This is returned by gate checks and should be shown to the user.
type GateError struct {
	Feature       string
	RequiredLevel int
}

func (e GateError) Error() string {
	if e.RequiredLevel <= 0 {
		return fmt.Sprintf("feature '%s' is locked", e.Feature)
	}
	return fmt.Sprintf("feature '%s' unlocks at level %d", e.Feature, e.RequiredLevel)
}

func (e GateError) Is(target error) bool { return target == ErrLocked }

func invalid(field, format string, args ...any) error {
	return ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
