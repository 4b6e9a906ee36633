package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/podhealth/pod-api/pkg/api"
	"github.com/podhealth/pod-api/pkg/storage"
)

// Server holds references to the store, router and handlers.
type Server struct {
	router *mux.Router
	store  *storage.StorageEngine
}

// NewServer creates a new instance of Server.
func NewServer(options ...storage.StorageOption) *Server {
	s := &Server{
		router: mux.NewRouter(),
		store:  storage.NewStorageEngine(options...),
	}

	// Store-level uniqueness for the two flow-checked keys. Registered
	// before any load so loaded data is re-indexed too.
	if err := s.store.CreateUniqueIndex("user", "email"); err != nil {
		log.Printf("ERROR: Could not create unique index on user.email: %v", err)
	}
	if err := s.store.CreateUniqueIndex("profile", "username"); err != nil {
		log.Printf("ERROR: Could not create unique index on profile.username: %v", err)
	}

	handler := api.NewHandler(s.store)
	handler.RegisterRoutes(s.router)

	s.router.Use(requestLoggerMiddleware)
	s.router.Use(corsMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return s
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// corsMiddleware allows the frontend to call from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// InitDB loads persisted data from a file and starts background workers.
func (s *Server) InitDB(filename string) {
	if err := s.store.LoadFromFile(filename); err != nil {
		log.Printf("ERROR: Could not load data from file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Loaded data from file %s successfully", filename)
	}
	s.store.StartBackgroundWorkers()
}

// SaveDB saves the current store state to file
func (s *Server) SaveDB(filename string) {
	if err := s.store.SaveToFile(filename); err != nil {
		log.Printf("ERROR: Could not save data to file %s: %v", filename, err)
	} else {
		log.Printf("INFO: Saved data to file %s successfully", filename)
	}
}

// StopBackgroundWorkers stops the store's background workers.
func (s *Server) StopBackgroundWorkers() {
	s.store.StopBackgroundWorkers()
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}
