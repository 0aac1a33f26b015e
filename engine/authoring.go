package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/quick-swipe/model"
	"golang.org/x/text/unicode/norm"
)

const MaxQuestions = 100

// ParseQuestions splits text into one question per line, dropping blank lines.
func ParseQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}

// NewSurvey validates title and questions and returns a survey with a fresh
// identifier. Every validation problem is reported, not just the first.
func NewSurvey(title string, questions []string) (model.Survey, error) {
	var errs *multierror.Error

	title = norm.NFC.String(strings.TrimSpace(title))
	if title == "" {
		errs = multierror.Append(errs, ErrEmptyTitle)
	}

	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		q = norm.NFC.String(strings.TrimSpace(q))
		if q != "" {
			cleaned = append(cleaned, q)
		}
	}
	switch {
	case len(cleaned) == 0:
		errs = multierror.Append(errs, ErrNoQuestions)
	case len(cleaned) > MaxQuestions:
		errs = multierror.Append(errs, fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(cleaned), MaxQuestions))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return model.Survey{}, err
	}

	return model.Survey{
		ID:        uuid.NewString(),
		Title:     title,
		Questions: cleaned,
		CreatedAt: time.Now().UTC(),
	}, nil
}
