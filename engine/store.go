package engine

import (
	"context"

	"github.com/mbolis/quick-swipe/model"
)

// Catalog resolves a survey by its identifier.
// Implementations return ErrNotFound when the identifier does not resolve.
type Catalog interface {
	FetchSurvey(ctx context.Context, id string) (model.Survey, error)
}

// ResponseStore is the append-only log of answers.
type ResponseStore interface {
	InsertResponse(ctx context.Context, r model.Response) error
	FetchResponses(ctx context.Context, surveyID string) ([]model.Response, error)
}
