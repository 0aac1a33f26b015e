package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("survey does not exist")
	ErrPersistence     = errors.New("response could not be saved")
	ErrSessionComplete = errors.New("session already complete")
	ErrDecisionPending = errors.New("a decision is already being saved")

	// ErrAnswerPending rejects a retry that changes the answer of a failed
	// attempt, which the store may already hold.
	ErrAnswerPending = errors.New("a different answer to this question may already be saved")

	// ErrResponseConflict reports a response ID already used for another
	// question or answer.
	ErrResponseConflict = errors.New("response id already used")

	ErrEmptyTitle   = errors.New("title is required")
	ErrNoQuestions  = errors.New("at least one question is required")
	ErrTooManyItems = errors.New("too many questions")
)

// PersistenceError reports a failed insert for the question at Index.
// The session stays on that question.
type PersistenceError struct {
	SurveyID string
	Index    int
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save answer to question %d of survey %s: %v", e.Index, e.SurveyID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
