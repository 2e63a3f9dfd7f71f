package httpapi

import (
	"net/http"

	"skincare_schedule_service/internal/app"
	"skincare_schedule_service/internal/infra/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the engine's minimal HTTP surface.
func NewRouter(cfg *config.AppConfig, schedules app.ScheduleService, templates app.TemplateService, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := &ScheduleHandler{Schedules: schedules, Templates: templates, Logger: logger}
	r.Route("/api/schedule", func(r chi.Router) {
		r.Get("/", h.Pull)
		r.Get("/monthly", h.Monthly)
		r.Post("/pool", h.CreateTemplate)
		r.Get("/pool", h.ListTemplates)
		r.Post("/fulfill/{id}", h.ToggleFulfilled)
	})

	return r
}
