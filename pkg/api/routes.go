package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Auth and profile flows. OPTIONS is listed so CORS preflights match the
	// route and get answered by the CORS middleware.
	router.HandleFunc("/auth/login", h.HandleLogin).Methods("POST", "OPTIONS")
	router.HandleFunc("/profile/create", h.HandleCreateProfile).Methods("POST", "OPTIONS")

	// Generic record operations, one collection per declared record shape
	router.HandleFunc("/collections/{coll}", h.HandleInsertRecord).Methods("POST", "OPTIONS")
	router.HandleFunc("/collections/{coll}/find", h.HandleFindRecords).Methods("GET")

	// Introspection
	router.HandleFunc("/test", h.HandleTestConnection).Methods("GET")
	router.HandleFunc("/", h.HandleRoot).Methods("GET")
}
