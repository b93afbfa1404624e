package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewRouter builds the API routes around a handler. metrics may be nil.
func NewRouter(handler *Handler, metrics http.Handler) http.Handler {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if metrics != nil {
		router.Handle("/metrics", metrics).Methods("GET")
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Leagues
	api.HandleFunc("/leagues/{leagueKey}/standings", handler.GetStandings).Methods("GET")
	api.HandleFunc("/leagues/{leagueKey}/standings/refresh", handler.RefreshStandings).Methods("POST")
	api.HandleFunc("/leagues/{leagueKey}/history", handler.GetHistory).Methods("GET")

	// Rendering
	api.HandleFunc("/standings/render", handler.RenderStandings).Methods("POST")

	// Scheduler
	api.HandleFunc("/scheduler/status", handler.SchedulerStatus).Methods("GET")

	return CORS(router)
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler, metrics http.Handler) *Server {
	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           NewRouter(handler, metrics),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
