// Package api - Notification callbacks
package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexbotov/raiaccept/pkg/raiaccept"
	"github.com/alexbotov/raiaccept/pkg/raiaccept/webhook"
)

// OrderLookup fetches the current state of an order from the gateway
type OrderLookup interface {
	GetOrderDetails(ctx context.Context, accessToken, orderID string) (*raiaccept.Result[raiaccept.GetOrderDetailsResponse], error)
}

// TokenSource returns a bearer token for gateway calls
type TokenSource func(ctx context.Context) (string, error)

// Notifier turns webhook notifications into log records. With an
// OrderLookup configured, paid notifications are confirmed against the
// gateway before they are accepted.
type Notifier struct {
	logger *zap.Logger
	orders OrderLookup
	token  TokenSource
}

// NewNotifier creates a notifier. orders and token may both be nil.
func NewNotifier(logger *zap.Logger, orders OrderLookup, token TokenSource) *Notifier {
	return &Notifier{logger: logger, orders: orders, token: token}
}

// Callbacks returns the webhook callbacks of the notifier
func (n *Notifier) Callbacks() webhook.Callbacks {
	return webhook.Callbacks{
		OnPaid:      n.paid,
		OnFailed:    n.record(webhook.OutcomeFailed),
		OnCancelled: n.record(webhook.OutcomeCancelled),
		OnOther:     n.record(webhook.OutcomeOther),
	}
}

func fields(notification *raiaccept.NotificationWebhookRequest) []zap.Field {
	return []zap.Field{
		zap.String("order_id", notification.OrderID),
		zap.String("transaction_id", notification.TransactionID),
		zap.String("status", notification.Status),
		zap.String("amount", notification.Amount.String()),
		zap.String("currency", notification.Currency),
	}
}

func (n *Notifier) record(outcome webhook.Outcome) webhook.Callback {
	return func(ctx context.Context, notification *raiaccept.NotificationWebhookRequest) error {
		n.logger.Info("payment "+string(outcome), fields(notification)...)
		return nil
	}
}

func (n *Notifier) paid(ctx context.Context, notification *raiaccept.NotificationWebhookRequest) error {
	if n.orders == nil || n.token == nil {
		n.logger.Info("payment paid", fields(notification)...)
		return nil
	}

	token, err := n.token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	res, err := n.orders.GetOrderDetails(ctx, token, notification.OrderID)
	if err != nil {
		return err
	}
	// nil result: the lookup soft-failed
	if res == nil || res.Object == nil {
		return fmt.Errorf("order %s could not be confirmed", notification.OrderID)
	}
	if !raiaccept.IsPaid(res.Object.Status) {
		n.logger.Warn("paid notification for unpaid order",
			append(fields(notification), zap.String("order_status", res.Object.Status))...)
		return nil
	}

	n.logger.Info("payment paid", append(fields(notification), zap.Bool("confirmed", true))...)
	return nil
}
