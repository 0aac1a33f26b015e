package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mbolis/quick-swipe/model"
)

type Outcome int

const (
	Failed Outcome = iota
	Advanced
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Completed:
		return "completed"
	default:
		return "failed"
	}
}

// State is a snapshot of a session position.
// Complete is true once Index == Total.
type State struct {
	Index    int
	Total    int
	Complete bool
}

// Session walks one respondent through the questions of a survey, in order,
// accepting exactly one decision per question. It is owned by the caller and
// must not be shared between respondents.
type Session struct {
	survey model.Survey
	store  ResponseStore
	newKey func() string

	mu       sync.Mutex
	index    int
	inFlight bool
	// key and keyAnswer belong to an attempt that failed and may still have
	// reached the store.
	key       string
	keyAnswer bool
}

// StartSession returns a session positioned on the first question.
// A survey without questions yields a session that is already complete.
func StartSession(survey model.Survey, store ResponseStore) *Session {
	return &Session{
		survey: survey,
		store:  store,
		newKey: uuid.NewString,
	}
}

// OpenSession fetches the survey from the catalog and starts a session on it.
func OpenSession(ctx context.Context, catalog Catalog, store ResponseStore, id string) (*Session, error) {
	survey, err := catalog.FetchSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	return StartSession(survey, store), nil
}

func (s *Session) Survey() model.Survey {
	return s.survey
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	n := len(s.survey.Questions)
	return State{Index: s.index, Total: n, Complete: s.index >= n}
}

// Question returns the text of the current question, or false when the
// session is complete.
func (s *Session) Question() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.survey.Questions) {
		return "", false
	}
	return s.survey.Questions[s.index], true
}

// PendingAnswer reports the answer of a failed attempt that has to be
// retried before the session can move on.
func (s *Session) PendingAnswer() (answer bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyAnswer, s.key != ""
}

// Submit records answer for the current question and advances on success.
//
// On a store failure the session keeps the current question and the error is
// a *PersistenceError. Retrying reuses the same response ID, so a failed
// attempt that did reach the store is not counted twice. A retry must carry
// the answer of the failed attempt, otherwise it returns ErrAnswerPending
// without touching the store. Calls made while a previous Submit is still in
// flight return ErrDecisionPending.
func (s *Session) Submit(ctx context.Context, answer bool) (Outcome, error) {
	s.mu.Lock()
	if s.index >= len(s.survey.Questions) {
		s.mu.Unlock()
		return Failed, ErrSessionComplete
	}
	if s.inFlight {
		s.mu.Unlock()
		return Failed, ErrDecisionPending
	}
	switch {
	case s.key == "":
		s.key = s.newKey()
		s.keyAnswer = answer
	case s.keyAnswer != answer:
		s.mu.Unlock()
		return Failed, ErrAnswerPending
	}
	s.inFlight = true
	index := s.index
	r := model.Response{
		ID:            s.key,
		SurveyID:      s.survey.ID,
		QuestionIndex: index,
		Answer:        answer,
	}
	s.mu.Unlock()

	err := s.store.InsertResponse(ctx, r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return Failed, &PersistenceError{SurveyID: s.survey.ID, Index: index, Err: err}
	}

	s.key = ""
	s.index++
	if s.index >= len(s.survey.Questions) {
		return Completed, nil
	}
	return Advanced, nil
}
