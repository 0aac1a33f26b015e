package database

import (
	"context"
	"fmt"

	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/model"
)

func (s *Store) CreateSurvey(ctx context.Context, survey model.Survey) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO survey (id, title, created_at) VALUES (?, ?, ?)`,
		survey.ID,
		survey.Title,
		survey.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert survey: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO survey_question (survey_id, position, text)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("insert survey questions: %w", err)
	}
	defer stmt.Close()

	for i, q := range survey.Questions {
		_, err = stmt.ExecContext(ctx, survey.ID, i, q)
		if err != nil {
			return fmt.Errorf("insert survey question %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FetchSurvey returns the survey with its questions in creation order, or
// engine.ErrNotFound.
func (s *Store) FetchSurvey(ctx context.Context, id string) (model.Survey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.created_at, q.text
		FROM survey s
		LEFT OUTER JOIN survey_question q ON (s.id = q.survey_id)
		WHERE s.id = ?
		ORDER BY q.position`,
		id,
	)
	if err != nil {
		return model.Survey{}, err
	}
	defer rows.Close()

	surveys, err := scanSurveys(rows)
	if err != nil {
		return model.Survey{}, err
	}
	if len(surveys) == 0 {
		return model.Survey{}, engine.ErrNotFound
	}
	return surveys[0], nil
}

// ListSurveys returns every survey, newest first.
func (s *Store) ListSurveys(ctx context.Context) ([]model.Survey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.created_at, q.text
		FROM survey s
		LEFT OUTER JOIN survey_question q ON (s.id = q.survey_id)
		ORDER BY s.created_at DESC, s.id, q.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSurveys(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanSurveys folds survey/question join rows, grouped by survey, into surveys.
func scanSurveys(rows rowScanner) ([]model.Survey, error) {
	surveys := []model.Survey{}
	for rows.Next() {
		sv := model.Survey{}
		var question *string
		if err := rows.Scan(&sv.ID, &sv.Title, &sv.CreatedAt, &question); err != nil {
			return nil, err
		}

		last := len(surveys) - 1
		if last < 0 || surveys[last].ID != sv.ID {
			sv.Questions = []string{}
			surveys = append(surveys, sv)
			last++
		}
		if question != nil {
			surveys[last].Questions = append(surveys[last].Questions, *question)
		}
	}
	return surveys, rows.Err()
}

// DeleteSurvey removes a survey together with its questions and responses.
func (s *Store) DeleteSurvey(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM survey WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return engine.ErrNotFound
	}
	return nil
}
