package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/momentumapp/momentum/internal/service"
)

type Server struct {
	mx             *chi.Mux
	stateService   service.StateServiceI
	catalogService service.CatalogServiceI
}

type ServicesList struct {
	StateService   service.StateServiceI
	CatalogService service.CatalogServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:             chi.NewMux(),
		stateService:   servicesOptions.StateService,
		catalogService: servicesOptions.CatalogService,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.ListTasks)
			r.Post("/", s.CreateTask)
			r.Patch("/{id}", s.UpdateTask)
			r.Post("/{id}/toggle", s.ToggleTask)
			r.Delete("/{id}", s.DeleteTask)
		})
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.ListHabits)
			r.Post("/", s.CreateHabit)
			r.Post("/{id}/days/{day}/toggle", s.ToggleHabitDay)
			r.Delete("/{id}", s.DeleteHabit)
		})
		r.Get("/dashboard", s.Dashboard)
		r.Route("/resources", func(r chi.Router) {
			r.Get("/", s.ListResources)
			r.Get("/categories", s.ListResourceCategories)
			r.Post("/{id}/favorite", s.ToggleFavorite)
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.GetSettings)
			r.Put("/theme", s.SetTheme)
		})
		r.Post("/reset", s.ResetAll)
	})
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s.mx)
}

// Handler exposes the mux for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.mx
}
