// Package api provides the HTTP endpoints of the webhook receiver
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/alexbotov/raiaccept/pkg/raiaccept"
	"github.com/alexbotov/raiaccept/pkg/raiaccept/webhook"
)

// Version is reported by the info endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger  *zap.Logger
	webhook *webhook.Handler
}

// New creates a new API handler that dispatches notifications to callbacks
func New(logger *zap.Logger, callbacks webhook.Callbacks) *Handler {
	return &Handler{
		logger:  logger,
		webhook: webhook.NewHandler(callbacks, raiaccept.NewZapLogger(logger.Named("webhook"))),
	}
}

// Response helpers

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
	})
}

// ServerInfo handles GET /
func (h *Handler) ServerInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":        "raiaccept",
		"version":     Version,
		"description": "RaiAccept payment notification receiver",
		"languages":   raiaccept.AcceptedLanguages(),
	})
}

// Webhook handles POST on the notification path. The body format of the
// webhook acknowledgement is fixed by the gateway, so it bypasses APIResponse.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	h.webhook.ServeHTTP(w, r)
}
