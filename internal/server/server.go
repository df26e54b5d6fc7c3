package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/weavehq/weave/internal/engine"
	"github.com/weavehq/weave/internal/store"
)

// Server is the weave HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server with the given database, engine, and version.
func New(db *store.DB, eng *engine.Engine, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/friends", s.handleCreateFriend)
		r.Get("/friends", s.handleListFriends)
		r.Get("/friends/{friendID}", s.handleGetFriend)
		r.Patch("/friends/{friendID}", s.handleUpdateFriend)
		r.Post("/friends/{friendID}/archive", s.handleArchiveFriend)

		r.Post("/weaves", s.handleCreateWeave)
		r.Get("/weaves", s.handleListWeaves)

		r.Get("/season", s.handleGetSeason)
		r.Post("/season/recompute", s.handleRecomputeSeason)
		r.Post("/season/override", s.handleSeasonOverride)
		r.Get("/season/history", s.handleSeasonHistory)

		r.Get("/suggestions", s.handleSuggestions)

		r.Post("/battery", s.handleAddBattery)
		r.Get("/battery", s.handleListBattery)

		r.Post("/journal", s.handleCreateJournal)
		r.Get("/journal", s.handleListJournal)
		r.Get("/journal/{entryID}", s.handleGetJournal)
		r.Put("/reflections/{weekStart}", s.handleUpsertReflection)
		r.Get("/reflections", s.handleListReflections)

		r.Post("/intentions", s.handleCreateIntention)
		r.Post("/intentions/{intentionID}/complete", s.handleCompleteIntention)
		r.Get("/intentions", s.handleListIntentions)

		r.Post("/life-events", s.handleCreateLifeEvent)
		r.Post("/life-events/{eventID}/acknowledge", s.handleAcknowledgeLifeEvent)
		r.Get("/life-events", s.handleListLifeEvents)
	})

	r.Get("/dashboard", s.handleDashboard)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
