package routes

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/quick-swipe/app"
	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/httpx"
	"github.com/mbolis/quick-swipe/log"
	"github.com/mbolis/quick-swipe/model"
)

type createSurveyRequest struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
	// Text holds one question per line, as typed in a text area.
	Text string `json:"text"`
}

type createSurveyResponse struct {
	ID string `json:"id"`
	model.SurveyLinks
}

type submitResponseRequest struct {
	ID            string `json:"id"`
	QuestionIndex *int   `json:"question_index"`
	Answer        *bool  `json:"answer"`
}

type resultsResponse struct {
	Survey  model.Survey           `json:"survey"`
	Results []model.QuestionResult `json:"results"`
}

// Request body limits. A survey carries up to engine.MaxQuestions lines of text.
const (
	maxSurveyBody   = 1 << 20
	maxResponseBody = 4 << 10
)

// decodeBody decodes a JSON body of at most limit bytes into v. On failure it
// has already answered the request.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := render.DecodeJSON(r.Body, v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.LogStatus(w, r, http.StatusRequestEntityTooLarge, log.DebugLevel, "request.body_too_large")
	} else {
		httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
	}
	return false
}

func surveyLinks(app app.App, id string) model.SurveyLinks {
	base := app.Url()
	id = url.PathEscape(id)
	return model.SurveyLinks{
		SurveyURL:  base + "/survey/" + id,
		ResultsURL: base + "/results/" + id,
	}
}

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := createSurveyRequest{}
		if !decodeBody(w, r, maxSurveyBody, &req) {
			return
		}

		questions := req.Questions
		if len(questions) == 0 {
			questions = engine.ParseQuestions(req.Text)
		}

		survey, err := engine.NewSurvey(req.Title, questions)
		if err != nil {
			var merr *multierror.Error
			if errors.As(err, &merr) {
				merr.ErrorFormat = joinErrors
			}
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "create_survey.validate", "%s", err)
			return
		}

		err = app.CreateSurvey(r.Context(), survey)
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_survey", err)
			return
		}
		log.Infof("survey %s created with %d questions", survey.ID, len(survey.Questions))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, createSurveyResponse{
			ID:          survey.ID,
			SurveyLinks: surveyLinks(app, survey.ID),
		})
	}
}

func joinErrors(errs []error) string {
	msg := ""
	for i, err := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += err.Error()
	}
	return msg
}

func GetSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		survey, err := app.FetchSurvey(r.Context(), surveyId)
		if errors.Is(err, engine.ErrNotFound) {
			httpx.LogNotFound(w, r, "get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

func GetSurveyLinks(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		_, err := app.FetchSurvey(r.Context(), surveyId)
		if errors.Is(err, engine.ErrNotFound) {
			httpx.LogNotFound(w, r, "get_survey_links", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_survey", err)
			return
		}

		render.JSON(w, r, surveyLinks(app, surveyId))
	}
}

func SubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		req := submitResponseRequest{}
		if !decodeBody(w, r, maxResponseBody, &req) {
			return
		}
		if req.QuestionIndex == nil || req.Answer == nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "submit_response.validate", "question_index and answer are required")
			return
		}

		survey, err := app.FetchSurvey(r.Context(), surveyId)
		if errors.Is(err, engine.ErrNotFound) {
			httpx.LogNotFound(w, r, "submit_response", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_survey", err)
			return
		}

		index := *req.QuestionIndex
		if index < 0 || index >= len(survey.Questions) {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "submit_response.validate",
				"question_index %d out of range [0, %d)", index, len(survey.Questions))
			return
		}

		response := model.Response{
			ID:            req.ID,
			SurveyID:      surveyId,
			QuestionIndex: index,
			Answer:        *req.Answer,
		}
		if response.ID == "" {
			response.ID = uuid.NewString()
		}
		err = app.InsertResponse(r.Context(), response)
		if errors.Is(err, engine.ErrResponseConflict) {
			httpx.LogStatusMsg(w, r, http.StatusConflict, log.DebugLevel, "submit_response.conflict",
				"response %s already recorded for another question or answer", response.ID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_response", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": response.ID,
		})
	}
}

func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		_, err := app.FetchSurvey(r.Context(), surveyId)
		if errors.Is(err, engine.ErrNotFound) {
			httpx.LogNotFound(w, r, "list_responses", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_survey", err)
			return
		}

		responses, err := app.FetchResponses(r.Context(), surveyId)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

func GetSurveyResults(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		survey, results, err := engine.LoadResults(r.Context(), app, app, surveyId)
		if errors.Is(err, engine.ErrNotFound) {
			httpx.LogNotFound(w, r, "get_results", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_results", err)
			return
		}

		render.JSON(w, r, resultsResponse{Survey: survey, Results: results})
	}
}
