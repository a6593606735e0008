package raiaccept

import (
	"context"
	"errors"
)

// Service is the high-level entry point. Writes and logins return every
// error; the read accessors and Refund return a nil result instead of a
// gateway or transport error.
type Service struct {
	client *Client
	logger Logger
}

// NewService creates a Service over a new Client built from config
func NewService(config *ClientConfig) *Service {
	return NewServiceWithClient(NewClient(config))
}

// NewServiceWithClient creates a Service over an existing Client
func NewServiceWithClient(client *Client) *Service {
	return &Service{client: client, logger: client.config.Logger}
}

// Client returns the underlying low-level client.
func (s *Service) Client() *Client {
	return s.client
}

// RetrieveAccessTokenWithCredentials logs in with the configured scheme and
// returns the bearer token to use for API calls: the access token for mTLS,
// the ID token for the bearer scheme. It returns "" when the response
// carries no token.
func (s *Service) RetrieveAccessTokenWithCredentials(ctx context.Context, username, password string) (string, error) {
	if s.client.config.AuthScheme == AuthSchemeBearer {
		res, err := s.client.BearerToken(ctx, username, password)
		if err != nil {
			return "", err
		}
		return res.Object.IDToken(), nil
	}

	res, err := s.client.Token(ctx, username, password)
	if err != nil {
		return "", err
	}
	if res.Object == nil {
		return "", nil
	}
	return res.Object.AccessToken, nil
}

// CreateOrderEntry registers a new order
func (s *Service) CreateOrderEntry(ctx context.Context, accessToken string, order *CreateOrderEntryRequest) (*Result[CreateOrderEntryResponse], error) {
	return s.client.CreateOrderEntry(ctx, accessToken, order)
}

// CreatePaymentSession opens a hosted payment page session for an order
func (s *Service) CreatePaymentSession(ctx context.Context, accessToken string, session *CreateOrderEntryRequest, externalOrderID string) (*Result[CreatePaymentSessionResponse], error) {
	return s.client.CreatePaymentSession(ctx, accessToken, externalOrderID, session)
}

// GetOrderTransactions lists the transactions of an order, or returns nil
// when the gateway call fails
func (s *Service) GetOrderTransactions(ctx context.Context, accessToken, orderID string) (*Result[GetOrderTransactionsResponse], error) {
	res, err := s.client.GetOrderTransactions(ctx, orderID, accessToken)
	return softFail(s.logger, "GetOrderTransactions", res, err)
}

// GetOrderDetails fetches an order, or returns nil when the gateway call fails
func (s *Service) GetOrderDetails(ctx context.Context, accessToken, orderID string) (*Result[GetOrderDetailsResponse], error) {
	res, err := s.client.GetOrderDetails(ctx, orderID, accessToken)
	return softFail(s.logger, "GetOrderDetails", res, err)
}

// GetTransactionDetails fetches a transaction, or returns nil when the
// gateway call fails
func (s *Service) GetTransactionDetails(ctx context.Context, accessToken, orderID, transactionID string) (*Result[GetTransactionDetailsResponse], error) {
	res, err := s.client.GetTransactionDetails(ctx, orderID, transactionID, accessToken)
	return softFail(s.logger, "GetTransactionDetails", res, err)
}

// Refund refunds a transaction, or returns nil when the gateway call fails
func (s *Service) Refund(ctx context.Context, accessToken, orderID, transactionID string, refund *RefundRequest) (*Result[RefundResponse], error) {
	res, err := s.client.Refund(ctx, orderID, transactionID, accessToken, refund)
	return softFail(s.logger, "Refund", res, err)
}

// softFail keeps invalid-argument and decode errors and turns every other
// failure into an absent result. The discarded error is logged.
func softFail[T any](logger Logger, operation string, res *Result[T], err error) (*Result[T], error) {
	if err == nil {
		return res, nil
	}
	var decodeErr *DecodeError
	if errors.Is(err, ErrInvalidArgument) || errors.As(err, &decodeErr) {
		return nil, err
	}
	safeLog(logger, true, "RaiAccept "+operation+" failed", err.Error())
	return nil, nil
}
