// Package api - Router setup
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRouter creates and configures the HTTP router
func (h *Handler) SetupRouter(webhookPath string) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(RequestIDMiddleware)
	r.Use(h.LoggingMiddleware)
	r.Use(h.RecoveryMiddleware)

	r.HandleFunc("/", h.ServerInfo).Methods("GET")
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc(webhookPath, h.Webhook).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(NotFoundHandler)
	return r
}

// NotFoundHandler handles 404 errors
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}
