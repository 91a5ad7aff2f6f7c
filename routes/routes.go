package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"survey-collector/app"
	"survey-collector/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	// public survey surface
	root.Get("/", SurveyForm())
	root.Get("/survey", SurveyRedirect)
	root.Post("/submit", SubmitSurvey(app))
	root.Get("/qrcode", QRCode(app))
	root.Get("/thankyou", ThankYou())

	root.Get("/login", LoginForm(app))
	root.Post("/login", Login(app))
	root.Get("/logout", Logout())

	// admin surface
	root.Group(func(r chi.Router) {
		r.Use(middlewares.SessionAuth(app.TokenAuth))

		r.Get("/records", Records(app))
		r.Get(`/file/{id:^\d+$}`, GetFile(app))
		r.Post("/delete_records", DeleteRecords(app))
		r.Get("/download_all", DownloadAll(app))
	})

	return root
}
