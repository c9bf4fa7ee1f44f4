// Package api serves a local preview of the site and its data.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baxromumarov/fundedlist/internal/core"
	"github.com/baxromumarov/fundedlist/internal/dataset"
	"github.com/baxromumarov/fundedlist/internal/site"
)

// SnapshotFunc returns the dataset to serve. It returns core.ErrNoData when
// nothing has been published yet.
type SnapshotFunc func() (*dataset.Snapshot, error)

// LiveSnapshot prefers the last in-process run and falls back to the JSON
// files in dir.
func LiveSnapshot(ingestion *core.IngestionService, dir string) SnapshotFunc {
	return func() (*dataset.Snapshot, error) {
		if ingestion != nil {
			if res := ingestion.Last(); res != nil {
				return dataset.FromResult(res), nil
			}
		}
		return dataset.Load(dir)
	}
}

type Server struct {
	router    *chi.Mux
	snapshot  SnapshotFunc
	renderer  *site.Renderer
	history   History
	refresher Refresher
}

// NewServer wires the routes. history and refresher are optional; pass nil
// (not a typed nil pointer) to disable /api/history and /api/refresh.
func NewServer(snapshot SnapshotFunc, renderer *site.Renderer, history History, refresher Refresher) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		snapshot:  snapshot,
		renderer:  renderer,
		history:   history,
		refresher: refresher,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/companies", s.handleListCompanies)
		r.Get("/vcs", s.handleListVCs)
		r.Get("/jobs", s.handleListJobs)
		if s.history != nil {
			r.Get("/history", s.handleHistory)
		}
		if s.refresher != nil {
			r.Post("/refresh", s.handleRefresh)
		}
	})

	s.router.Get("/", s.handleSite)
	s.router.Get("/index.html", s.handleSite)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
