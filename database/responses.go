package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/model"
)

// InsertResponse appends r to the response log. A response whose ID is
// already stored with the same survey, question and answer is accepted
// without being stored again; any other reuse of the ID fails with
// engine.ErrResponseConflict.
func (s *Store) InsertResponse(ctx context.Context, r model.Response) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO response (id, survey_id, question_index, answer, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		r.ID,
		r.SurveyID,
		r.QuestionIndex,
		r.Answer,
		r.CreatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}

	var stored model.Response
	err = s.db.QueryRowContext(ctx, `
		SELECT survey_id, question_index, answer
		FROM response
		WHERE id = ?`,
		r.ID,
	).Scan(&stored.SurveyID, &stored.QuestionIndex, &stored.Answer)
	if err != nil {
		return err
	}
	if stored.SurveyID != r.SurveyID || stored.QuestionIndex != r.QuestionIndex || stored.Answer != r.Answer {
		return engine.ErrResponseConflict
	}
	return nil
}

func (s *Store) FetchResponses(ctx context.Context, surveyID string) ([]model.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, survey_id, question_index, answer, created_at
		FROM response
		WHERE survey_id = ?`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []model.Response{}
	for rows.Next() {
		r := model.Response{}
		err = rows.Scan(&r.ID, &r.SurveyID, &r.QuestionIndex, &r.Answer, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}
