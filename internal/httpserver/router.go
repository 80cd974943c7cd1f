package httpserver

import (
	"log/slog"
	"net/http"

	"postgen/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Routes перечисляет обработчики API, которые монтирует роутер.
type Routes interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GetCredential(w http.ResponseWriter, r *http.Request)
	PutCredential(w http.ResponseWriter, r *http.Request)
	DeleteCredential(w http.ResponseWriter, r *http.Request)
	State(w http.ResponseWriter, r *http.Request)
}

type RouterDeps struct {
	Logger   *slog.Logger
	API      Routes
	Recorder middleware.HTTPRecorder
	// Metrics отдаётся на /metrics, если задан.
	Metrics http.Handler
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger, deps.Recorder))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", deps.API.Generate)
		r.Get("/state", deps.API.State)

		r.Get("/credential", deps.API.GetCredential)
		r.Put("/credential", deps.API.PutCredential)
		r.Delete("/credential", deps.API.DeleteCredential)
	})

	return r
}
