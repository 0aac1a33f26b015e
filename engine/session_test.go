package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mbolis/quick-swipe/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSurvey(questions ...string) model.Survey {
	return model.Survey{ID: "s1", Title: "Food", Questions: questions}
}

func TestSession_WalksEveryQuestionOnce(t *testing.T) {
	for n := 1; n <= 5; n++ {
		questions := make([]string, n)
		for i := range questions {
			questions[i] = "Q"
		}
		store := newMemStore()
		s := StartSession(testSurvey(questions...), store)

		require.Equal(t, State{Index: 0, Total: n}, s.State())
		for i := 0; i < n; i++ {
			outcome, err := s.Submit(context.Background(), i%2 == 0)
			require.NoError(t, err)
			if i < n-1 {
				assert.Equal(t, Advanced, outcome)
				assert.Equal(t, State{Index: i + 1, Total: n}, s.State())
			} else {
				assert.Equal(t, Completed, outcome)
				assert.True(t, s.State().Complete)
			}
		}

		counts := store.byIndex()
		require.Len(t, counts, n)
		for i := 0; i < n; i++ {
			assert.Equal(t, 1, counts[i], "question %d", i)
		}
	}
}

func TestSession_ResponsesCarrySurveyAndIndex(t *testing.T) {
	store := newMemStore()
	s := StartSession(testSurvey("Pizza?", "Tacos?"), store)

	_, err := s.Submit(context.Background(), true)
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, store.responses, 2)
	assert.Equal(t, "s1", store.responses[0].SurveyID)
	assert.Equal(t, 0, store.responses[0].QuestionIndex)
	assert.True(t, store.responses[0].Answer)
	assert.Equal(t, 1, store.responses[1].QuestionIndex)
	assert.False(t, store.responses[1].Answer)
	assert.NotEqual(t, store.responses[0].ID, store.responses[1].ID)
}

func TestSession_FailureKeepsQuestion(t *testing.T) {
	store := newMemStore()
	s := StartSession(testSurvey("A", "B", "C"), store)

	_, err := s.Submit(context.Background(), true)
	require.NoError(t, err)
	store.failNext = 1

	outcome, err := s.Submit(context.Background(), true)
	assert.Equal(t, Failed, outcome)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, errStoreDown))

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Index)

	q, ok := s.Question()
	require.True(t, ok)
	assert.Equal(t, "B", q)
	assert.Equal(t, 1, s.State().Index)
}

func TestSession_FailThenRetryStoresOnce(t *testing.T) {
	store := newMemStore()
	store.failNext = 1
	s := StartSession(testSurvey("A", "B"), store)

	_, err := s.Submit(context.Background(), true)
	require.Error(t, err)
	outcome, err := s.Submit(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, Advanced, outcome)

	assert.Equal(t, map[int]int{0: 1}, store.byIndex())
}

func TestSession_RetryAfterCommittedFailureStoresOnce(t *testing.T) {
	store := newMemStore()
	store.commitThenFail = true
	s := StartSession(testSurvey("A", "B"), store)

	_, err := s.Submit(context.Background(), true)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 0, s.State().Index)

	_, err = s.Submit(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 2, store.inserts)
	assert.Equal(t, map[int]int{0: 1}, store.byIndex())
}

func TestSession_RetryWithChangedAnswerRejected(t *testing.T) {
	store := newMemStore()
	store.commitThenFail = true
	s := StartSession(testSurvey("A", "B"), store)
	ctx := context.Background()

	_, err := s.Submit(ctx, true)
	require.ErrorIs(t, err, ErrPersistence)

	pending, ok := s.PendingAnswer()
	require.True(t, ok)
	assert.True(t, pending)

	outcome, err := s.Submit(ctx, false)
	assert.Equal(t, Failed, outcome)
	assert.ErrorIs(t, err, ErrAnswerPending)
	assert.Equal(t, 0, s.State().Index)
	assert.Equal(t, 1, store.inserts)

	outcome, err = s.Submit(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, Advanced, outcome)

	_, ok = s.PendingAnswer()
	assert.False(t, ok)

	// the next question takes either answer
	outcome, err = s.Submit(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, Completed, outcome)

	require.Len(t, store.responses, 2)
	assert.True(t, store.responses[0].Answer)
	assert.False(t, store.responses[1].Answer)
}

func TestSession_CompleteRejectsDecisions(t *testing.T) {
	store := newMemStore()
	s := StartSession(testSurvey("Only"), store)

	outcome, err := s.Submit(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, Completed, outcome)

	outcome, err = s.Submit(context.Background(), true)
	assert.Equal(t, Failed, outcome)
	assert.ErrorIs(t, err, ErrSessionComplete)
	assert.Len(t, store.responses, 1)

	_, ok := s.Question()
	assert.False(t, ok)
}

func TestSession_EmptySurveyIsComplete(t *testing.T) {
	store := newMemStore()
	s := StartSession(testSurvey(), store)

	assert.Equal(t, State{Index: 0, Total: 0, Complete: true}, s.State())
	_, ok := s.Question()
	assert.False(t, ok)

	_, err := s.Submit(context.Background(), true)
	assert.ErrorIs(t, err, ErrSessionComplete)
	assert.Zero(t, store.inserts)
}

func TestSession_ConcurrentDecisionsAcceptOne(t *testing.T) {
	store := newMemStore()
	store.block = make(chan struct{})
	s := StartSession(testSurvey("A", "B"), store)

	first := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), true)
		first <- err
	}()

	// wait until the first decision holds the in-flight slot
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.inFlight
	}, time.Second, time.Millisecond)

	var wg sync.WaitGroup
	var mu sync.Mutex
	pending := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit(context.Background(), false)
			if errors.Is(err, ErrDecisionPending) {
				mu.Lock()
				pending++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(store.block)

	require.NoError(t, <-first)
	assert.Equal(t, 10, pending)
	assert.Equal(t, 1, s.State().Index)
	assert.Equal(t, map[int]int{0: 1}, store.byIndex())
	assert.True(t, store.responses[0].Answer)
}

func TestSession_CancelledContextDoesNotAdvance(t *testing.T) {
	store := newMemStore()
	store.block = make(chan struct{})
	s := StartSession(testSurvey("A"), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := s.Submit(ctx, true)
	assert.Equal(t, Failed, outcome)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.State().Index)
}

func TestOpenSession(t *testing.T) {
	store := newMemStore(testSurvey("A"))

	s, err := OpenSession(context.Background(), store, store, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Food", s.Survey().Title)

	_, err = OpenSession(context.Background(), store, store, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
