// Package api exposes the analysis service over HTTP for the dashboard.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/app"
)

// Server routes dashboard queries to the analysis service.
type Server struct {
	router  *chi.Mux
	service *app.AnalysisService
}

// NewServer creates the HTTP server and registers every route.
func NewServer(service *app.AnalysisService) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
	}
	s.routes()
	return s
}

// Router returns the configured handler for mounting or serving.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleRoot)
	s.router.Post("/reload", s.handleReload)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/data", func(r chi.Router) {
		r.Post("/summary", s.handleSummary)
		r.Get("/locations", s.handleLocations)
		r.Get("/levels", s.handleLevels)
		r.Post("/chart_data", s.handleChartData)
		r.Post("/export", s.handleExport)
	})

	s.router.Route("/analysis", func(r chi.Router) {
		r.Post("/hypothesis1", s.handleHypothesis("H1"))
		r.Post("/hypothesis2", s.handleHypothesis("H2"))
		r.Post("/hypothesis3", s.handleHypothesis("H3"))
	})

	s.router.Post("/analyze/new-data", s.handleNewData)
}
