package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/mbolis/quick-swipe/model"
)

var errStoreDown = errors.New("store down")

// memStore keeps responses keyed by ID, like the real stores do.
type memStore struct {
	mu        sync.Mutex
	surveys   map[string]model.Survey
	responses []model.Response
	seen      map[string]bool
	inserts   int

	// failNext fails that many inserts before accepting.
	failNext int
	// commitThenFail stores the next insert but still reports an error.
	commitThenFail bool
	// block, when set, holds inserts until closed.
	block chan struct{}
}

func newMemStore(surveys ...model.Survey) *memStore {
	s := &memStore{surveys: map[string]model.Survey{}, seen: map[string]bool{}}
	for _, sv := range surveys {
		s.surveys[sv.ID] = sv
	}
	return s
}

func (s *memStore) FetchSurvey(ctx context.Context, id string) (model.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv, ok := s.surveys[id]
	if !ok {
		return model.Survey{}, ErrNotFound
	}
	return sv, nil
}

func (s *memStore) InsertResponse(ctx context.Context, r model.Response) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.failNext > 0 {
		s.failNext--
		return errStoreDown
	}
	if !s.seen[r.ID] {
		s.seen[r.ID] = true
		s.responses = append(s.responses, r)
	}
	if s.commitThenFail {
		s.commitThenFail = false
		return errStoreDown
	}
	return nil
}

func (s *memStore) FetchResponses(ctx context.Context, surveyID string) ([]model.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Response
	for _, r := range s.responses {
		if r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) byIndex() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[int]int{}
	for _, r := range s.responses {
		counts[r.QuestionIndex]++
	}
	return counts
}
