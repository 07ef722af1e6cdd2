// Package api exposes the game engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dungeondelve/internal/game"
	"dungeondelve/internal/images"
)

// Server handles HTTP requests
type Server struct {
	engine *game.Engine
}

// NewServer creates a new API server
func NewServer(engine *game.Engine) *Server {
	return &Server{engine: engine}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	// CORS for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Routes
	r.Route("/api/game", func(r chi.Router) {
		r.Post("/create", s.handleCreatePlayer)
		r.Get("/list", s.handleListPlayers)
		r.Get("/{playerID}", s.handleGameState)
		r.Post("/{playerID}/start-dungeon", s.handleStartDungeon)
		r.Post("/{playerID}/portrait", s.handlePortrait)
		r.Route("/{playerID}/room/{roomID}", func(r chi.Router) {
			r.Get("/puzzle", s.handleGetPuzzle)
			r.Post("/check", s.handleCheckAnswer)
			r.Post("/complete", s.handleCompleteRoom)
		})
	})

	return r
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a structured error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	s.writeJSON(w, status, GameError{
		Type:      errType,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// handleEngineError maps engine error types onto HTTP statuses.
func (s *Server) handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *game.ValidationError
	var nerr *game.NotFoundError
	var cerr *game.ConflictError

	switch {
	case errors.As(err, &verr):
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, verr.Message)
	case errors.As(err, &nerr):
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, nerr.Error())
	case errors.As(err, &cerr):
		s.writeError(w, r, http.StatusConflict, ErrTypeConflict, cerr.Message)
	case errors.Is(err, images.ErrNotConfigured):
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeUnavailable, "image generation is not configured")
	default:
		log.Printf("request_failed method=%s path=%s request_id=%s error=%q",
			r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "internal server error")
	}
}
