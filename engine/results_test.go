package engine

import (
	"context"
	"testing"

	"github.com/mbolis/quick-swipe/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(surveyID string, index int, yes, no int) []model.Response {
	var out []model.Response
	for i := 0; i < yes; i++ {
		out = append(out, model.Response{SurveyID: surveyID, QuestionIndex: index, Answer: true})
	}
	for i := 0; i < no; i++ {
		out = append(out, model.Response{SurveyID: surveyID, QuestionIndex: index, Answer: false})
	}
	return out
}

func TestComputeResults_PizzaTacos(t *testing.T) {
	survey := model.Survey{ID: "s1", Questions: []string{"Pizza?", "Tacos?"}}
	responses := append(answers("s1", 1, 0, 2), answers("s1", 0, 3, 1)...)

	results := ComputeResults(survey, responses)

	assert.Equal(t, []model.QuestionResult{
		{Index: 0, Question: "Pizza?", Total: 4, Approvals: 3, ApprovalPercent: 75.0},
		{Index: 1, Question: "Tacos?", Total: 2, Approvals: 0, ApprovalPercent: 0.0},
	}, results)
}

func TestComputeResults_RanksByApprovals(t *testing.T) {
	survey := model.Survey{ID: "s1", Questions: []string{"A", "B", "C"}}
	var responses []model.Response
	responses = append(responses, answers("s1", 0, 1, 0)...)
	responses = append(responses, answers("s1", 1, 5, 5)...)
	responses = append(responses, answers("s1", 2, 2, 0)...)

	results := ComputeResults(survey, responses)

	require.Len(t, results, 3)
	assert.Equal(t, "B", results[0].Question)
	assert.Equal(t, 50.0, results[0].ApprovalPercent)
	assert.Equal(t, "C", results[1].Question)
	assert.Equal(t, 100.0, results[1].ApprovalPercent)
	assert.Equal(t, "A", results[2].Question)
}

func TestComputeResults_NoResponses(t *testing.T) {
	survey := model.Survey{ID: "s1", Questions: []string{"q", "q2"}}

	results := ComputeResults(survey, nil)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Zero(t, r.Total)
		assert.Zero(t, r.Approvals)
		assert.Equal(t, 0.0, r.ApprovalPercent)
	}
}

func TestComputeResults_IgnoresForeignResponses(t *testing.T) {
	survey := model.Survey{ID: "s1", Questions: []string{"A"}}
	responses := []model.Response{
		{SurveyID: "s2", QuestionIndex: 0, Answer: true},
		{SurveyID: "s1", QuestionIndex: 1, Answer: true},
		{SurveyID: "s1", QuestionIndex: -1, Answer: true},
		{SurveyID: "s1", QuestionIndex: 0, Answer: false},
	}

	results := ComputeResults(survey, responses)

	assert.Equal(t, []model.QuestionResult{{Index: 0, Question: "A", Total: 1}}, results)
}

func TestComputeResults_Pure(t *testing.T) {
	survey := model.Survey{ID: "s1", Questions: []string{"A", "B", "C"}}
	var responses []model.Response
	responses = append(responses, answers("s1", 2, 4, 1)...)
	responses = append(responses, answers("s1", 0, 1, 3)...)
	snapshot := append([]model.Response(nil), responses...)

	first := ComputeResults(survey, responses)
	second := ComputeResults(survey, responses)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, responses)
	assert.Equal(t, []string{"A", "B", "C"}, survey.Questions)
}

func TestComputeResults_EmptySurvey(t *testing.T) {
	results := ComputeResults(model.Survey{ID: "s1"}, answers("s1", 0, 1, 1))
	assert.Empty(t, results)
}

func TestLoadResults(t *testing.T) {
	store := newMemStore(model.Survey{ID: "s1", Title: "Food", Questions: []string{"Pizza?", "Tacos?"}})
	s := StartSession(store.surveys["s1"], store)
	_, err := s.Submit(context.Background(), false)
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), true)
	require.NoError(t, err)

	survey, results, err := LoadResults(context.Background(), store, store, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Food", survey.Title)
	require.Len(t, results, 2)
	assert.Equal(t, "Tacos?", results[0].Question)
	assert.Equal(t, 100.0, results[0].ApprovalPercent)

	_, _, err = LoadResults(context.Background(), store, store, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
