package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/quick-swipe/app"
	"github.com/mbolis/quick-swipe/httpx"
	"github.com/mbolis/quick-swipe/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, httpx.RequestLogger, middleware.Recoverer)

	root.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/surveys", CreateSurvey(app))
	api.Route("/surveys/{id}", func(r chi.Router) {
		r.Get("/", GetSurvey(app))
		r.Get("/links", GetSurveyLinks(app))
		r.Get("/results", GetSurveyResults(app))
		r.Get("/responses", ListResponses(app))
		r.Post("/responses", SubmitResponse(app))
	})

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		r.Get("/surveys", ListSurveys(app))
		r.Delete("/surveys/{id}", DeleteSurvey(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
