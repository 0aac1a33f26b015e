package engine

import (
	"context"
	"sort"

	"github.com/mbolis/quick-swipe/model"
)

// ComputeResults tallies responses per question of survey and ranks the
// questions by approvals, most approved first. Ties keep question order.
// Responses for another survey or an unknown question index are ignored.
func ComputeResults(survey model.Survey, responses []model.Response) []model.QuestionResult {
	results := make([]model.QuestionResult, len(survey.Questions))
	for i, q := range survey.Questions {
		results[i] = model.QuestionResult{Index: i, Question: q}
	}

	for _, r := range responses {
		if r.SurveyID != survey.ID {
			continue
		}
		if r.QuestionIndex < 0 || r.QuestionIndex >= len(results) {
			continue
		}
		results[r.QuestionIndex].Total++
		if r.Answer {
			results[r.QuestionIndex].Approvals++
		}
	}

	for i := range results {
		if results[i].Total > 0 {
			results[i].ApprovalPercent = 100 * float64(results[i].Approvals) / float64(results[i].Total)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Approvals > results[j].Approvals
	})
	return results
}

// LoadResults fetches a survey and its responses and computes the results.
func LoadResults(ctx context.Context, catalog Catalog, store ResponseStore, id string) (model.Survey, []model.QuestionResult, error) {
	survey, err := catalog.FetchSurvey(ctx, id)
	if err != nil {
		return model.Survey{}, nil, err
	}
	responses, err := store.FetchResponses(ctx, id)
	if err != nil {
		return model.Survey{}, nil, err
	}
	return survey, ComputeResults(survey, responses), nil
}
