package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-swipe/app"
	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/httpx"
	"github.com/mbolis/quick-swipe/log"
)

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.Store.ListSurveys(r.Context())
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_surveys", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		err := app.Store.DeleteSurvey(r.Context(), surveyId)
		if errors.Is(err, engine.ErrNotFound) {
			httpx.LogNotFound(w, r, "delete_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.delete_survey", err)
			return
		}
		log.Infof("survey %s deleted", surveyId)

		w.WriteHeader(http.StatusNoContent)
	}
}
