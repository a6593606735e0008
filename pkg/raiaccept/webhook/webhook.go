// Package webhook decodes RaiAccept payment notifications and dispatches
// them by payment status.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alexbotov/raiaccept/pkg/raiaccept"
)

// maxBodyBytes caps the size of a notification body.
const maxBodyBytes = 1 << 20

// ErrInvalidPayload is returned for bodies that are not a JSON object.
var ErrInvalidPayload = errors.New("invalid notification payload")

// Outcome is the status class of a notification
type Outcome string

const (
	OutcomePaid      Outcome = "paid"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeOther     Outcome = "other"
)

// Classify maps a payment status to its outcome.
func Classify(status string) Outcome {
	switch {
	case raiaccept.IsPaid(status):
		return OutcomePaid
	case raiaccept.IsFailed(status):
		return OutcomeFailed
	case raiaccept.IsCancelled(status):
		return OutcomeCancelled
	default:
		return OutcomeOther
	}
}

// Decode parses a notification body. Missing fields keep their zero value.
func Decode(body []byte) (*raiaccept.NotificationWebhookRequest, error) {
	data := raiaccept.Decode(body)
	if _, ok := data.(map[string]any); !ok {
		return nil, ErrInvalidPayload
	}
	n := &raiaccept.NotificationWebhookRequest{}
	if err := n.FromObject(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return n, nil
}

// Callback handles one decoded notification.
type Callback func(ctx context.Context, n *raiaccept.NotificationWebhookRequest) error

// Callbacks are invoked by outcome. Nil callbacks are skipped.
type Callbacks struct {
	OnPaid      Callback
	OnFailed    Callback
	OnCancelled Callback
	OnOther     Callback
}

func (c Callbacks) forOutcome(o Outcome) Callback {
	switch o {
	case OutcomePaid:
		return c.OnPaid
	case OutcomeFailed:
		return c.OnFailed
	case OutcomeCancelled:
		return c.OnCancelled
	}
	return c.OnOther
}

// Handler is an http.Handler for the notification URL. It answers 200
// {"success":true} once the notification was handled, 400 for an
// undecodable body and 500 when a callback fails.
type Handler struct {
	callbacks Callbacks
	logger    raiaccept.Logger
}

// NewHandler creates a notification handler. logger may be nil.
func NewHandler(callbacks Callbacks, logger raiaccept.Logger) *Handler {
	return &Handler{callbacks: callbacks, logger: logger}
}

// Dispatch classifies n and runs the matching callback.
func (h *Handler) Dispatch(ctx context.Context, n *raiaccept.NotificationWebhookRequest) (Outcome, error) {
	outcome := Classify(n.Status)
	cb := h.callbacks.forOutcome(outcome)
	if cb == nil {
		return outcome, nil
	}
	if err := cb(ctx, n); err != nil {
		return outcome, fmt.Errorf("%s notification for order %s: %w", outcome, n.OrderID, err)
	}
	return outcome, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unreadable body"})
		return
	}

	n, err := Decode(body)
	if err != nil {
		h.logError("RaiAccept webhook rejected", err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	h.log("RaiAccept webhook received", map[string]any{
		"orderId":       n.OrderID,
		"transactionId": n.TransactionID,
		"status":        n.Status,
		"amount":        n.Amount.String(),
		"currency":      n.Currency,
		"timestamp":     n.Timestamp,
	})

	if _, err := h.Dispatch(r.Context(), n); err != nil {
		h.logError("RaiAccept webhook processing error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) log(message string, data any) {
	if h.logger != nil {
		h.logger.Log(message, data)
	}
}

func (h *Handler) logError(message string, data any) {
	if h.logger != nil {
		h.logger.Error(message, data)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
