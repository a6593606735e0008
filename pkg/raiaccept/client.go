package raiaccept

import (
	"context"
	"net/http"
	"strings"
)

// Client is the low-level RaiAccept API client. Every operation validates
// its arguments, builds a Request, sends it and decodes the response into a
// typed Result. Errors are always returned to the caller.
type Client struct {
	config    *ClientConfig
	transport Transport
}

// NewClient creates a new RaiAccept API client
func NewClient(config *ClientConfig) *Client {
	config = config.withDefaults()
	return NewClientWithTransport(config, NewHTTPClient(&http.Client{Timeout: config.Timeout}, config.Logger))
}

// NewClientWithHTTPClient creates a new RaiAccept API client with a custom HTTP client
func NewClientWithHTTPClient(config *ClientConfig, httpClient *http.Client) *Client {
	config = config.withDefaults()
	return NewClientWithTransport(config, NewHTTPClient(httpClient, config.Logger))
}

// NewClientWithTransport creates a new RaiAccept API client that sends
// through transport
func NewClientWithTransport(config *ClientConfig, transport Transport) *Client {
	return &Client{
		config:    config.withDefaults(),
		transport: transport,
	}
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() ClientConfig {
	return *c.config
}

func (c *Client) authURL(path string) string {
	return strings.TrimRight(c.config.AuthURL, "/") + path
}

func (c *Client) apiURL(segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(c.config.APIURL, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}

func (c *Client) requireKeyPair(operation string) error {
	if len(c.config.Certificate) == 0 {
		return &InvalidArgumentError{Param: "cert", Operation: operation, Hint: "provide in ClientConfig"}
	}
	if len(c.config.PrivateKey) == 0 {
		return &InvalidArgumentError{Param: "key", Operation: operation, Hint: "provide in ClientConfig"}
	}
	return nil
}

// newRequest serializes body and assembles the descriptor. An empty
// accessToken leaves out the Authorization header.
func (c *Client) newRequest(method, url, accessToken string, body any) (*Request, error) {
	req := &Request{
		Method:      method,
		URL:         url,
		Headers:     map[string]string{"Content-Type": "application/json"},
		Certificate: c.config.Certificate,
		PrivateKey:  c.config.PrivateKey,
	}
	if accessToken != "" {
		req.Headers["Authorization"] = "Bearer " + accessToken
	}
	if body != nil {
		encoded, err := marshalBody(body)
		if err != nil {
			return nil, err
		}
		req.Body = repairNewlines(encoded)
	}
	return req, nil
}

// process sends req and decodes a 2xx body into T. withErrorShape attaches a
// decoded ErrorResponse to the *APIError of a 400.
func process[T any, PT interface {
	*T
	Shape
}](ctx context.Context, c *Client, req *Request, withErrorShape, omitLogging bool) (*Result[T], error) {
	resp, err := c.transport.Send(ctx, req, omitLogging)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(req, resp)
		if resp.StatusCode == http.StatusBadRequest && withErrorShape {
			apiErr.object = decodeErrorResponse(resp.Body)
		}
		return nil, apiErr
	}

	result := &Result[T]{Response: resp}
	data, err := parseJSON(resp.Body)
	if err != nil {
		return nil, &DecodeError{Body: resp.Body, Err: err}
	}
	if data == nil {
		return result, nil
	}
	obj := PT(new(T))
	if err := obj.FromObject(data); err != nil {
		return nil, &DecodeError{Body: resp.Body, Err: err}
	}
	result.Object = (*T)(obj)
	return result, nil
}

// decodeErrorResponse returns nil when the body is not valid JSON. An empty
// body yields an empty ErrorResponse.
func decodeErrorResponse(body string) *ErrorResponse {
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}
	data, err := parseJSON(body)
	if err != nil {
		return nil
	}
	er := &ErrorResponse{}
	if err := er.FromObject(data); err != nil {
		return nil
	}
	return er
}

// TokenRequest builds the mTLS login request.
func (c *Client) TokenRequest(username, password string) (*Request, error) {
	if username == "" {
		return nil, missing("username", "TokenRequest")
	}
	if password == "" {
		return nil, missing("password", "TokenRequest")
	}
	if err := c.requireKeyPair("Token"); err != nil {
		return nil, err
	}
	return c.newRequest(http.MethodPost, c.authURL(DefaultLoginPath), "",
		&AuthAPILoginInput{Username: username, Password: password})
}

// Token logs in with username and password over mTLS and returns an
// access/refresh token pair
func (c *Client) Token(ctx context.Context, username, password string) (*Result[AuthAPILoginOutput], error) {
	req, err := c.TokenRequest(username, password)
	if err != nil {
		return nil, err
	}
	return process[AuthAPILoginOutput](ctx, c, req, true, true)
}

// BearerTokenRequest builds the identity-provider login request. It carries
// no client certificate.
func (c *Client) BearerTokenRequest(username, password string) (*Request, error) {
	if username == "" {
		return nil, missing("username", "BearerTokenRequest")
	}
	if password == "" {
		return nil, missing("password", "BearerTokenRequest")
	}
	req, err := c.newRequest(http.MethodPost, c.authURL(c.config.LoginPath), "",
		&AuthAPILoginInput{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	req.Certificate, req.PrivateKey = nil, nil
	return req, nil
}

// BearerToken exchanges username and password with the identity provider
func (c *Client) BearerToken(ctx context.Context, username, password string) (*Result[AuthResponse], error) {
	req, err := c.BearerTokenRequest(username, password)
	if err != nil {
		return nil, err
	}
	return process[AuthResponse](ctx, c, req, true, true)
}

// TokenRefreshRequest builds the refresh request.
func (c *Client) TokenRefreshRequest(refreshToken string) (*Request, error) {
	if refreshToken == "" {
		return nil, missing("refreshToken", "TokenRefreshRequest")
	}
	if err := c.requireKeyPair("TokenRefresh"); err != nil {
		return nil, err
	}
	return c.newRequest(http.MethodPost, c.authURL("/auth/api/refresh"), "",
		&AuthAPIRefreshInput{RefreshToken: refreshToken})
}

// TokenRefresh exchanges a refresh token for a new access token
func (c *Client) TokenRefresh(ctx context.Context, refreshToken string) (*Result[AuthAPIRefreshOutput], error) {
	req, err := c.TokenRefreshRequest(refreshToken)
	if err != nil {
		return nil, err
	}
	return process[AuthAPIRefreshOutput](ctx, c, req, true, true)
}

// TokenLogoutRequest builds the logout request.
func (c *Client) TokenLogoutRequest(token string) (*Request, error) {
	if token == "" {
		return nil, missing("token", "TokenLogoutRequest")
	}
	if err := c.requireKeyPair("TokenLogout"); err != nil {
		return nil, err
	}
	return c.newRequest(http.MethodPost, c.authURL("/auth/api/logout"), "",
		&AuthAPILogoutInput{RefreshToken: token})
}

// TokenLogout revokes token. It reports true only for an HTTP 200; any
// other outcome, including invalid arguments, yields false.
func (c *Client) TokenLogout(ctx context.Context, token string) bool {
	req, err := c.TokenLogoutRequest(token)
	if err != nil {
		safeLog(c.config.Logger, true, "RaiAccept logout", err.Error())
		return false
	}
	resp, err := c.transport.Send(ctx, req, true)
	if err != nil {
		return false
	}
	return resp.StatusCode == http.StatusOK
}

// CreateOrderEntryRequest builds the create-order request.
func (c *Client) CreateOrderEntryRequest(accessToken string, order *CreateOrderEntryRequest) (*Request, error) {
	if accessToken == "" {
		return nil, missing("accessToken", "CreateOrderEntry")
	}
	if order == nil {
		return nil, missing("createOrderRequest", "CreateOrderEntry")
	}
	return c.newRequest(http.MethodPost, c.apiURL("orders"), accessToken, order)
}

// CreateOrderEntry registers a new order
func (c *Client) CreateOrderEntry(ctx context.Context, accessToken string, order *CreateOrderEntryRequest) (*Result[CreateOrderEntryResponse], error) {
	req, err := c.CreateOrderEntryRequest(accessToken, order)
	if err != nil {
		return nil, err
	}
	return process[CreateOrderEntryResponse](ctx, c, req, true, false)
}

// CreatePaymentSessionRequest builds the checkout request for an order.
func (c *Client) CreatePaymentSessionRequest(accessToken, externalOrderID string, session *CreateOrderEntryRequest) (*Request, error) {
	if accessToken == "" {
		return nil, missing("accessToken", "CreatePaymentSession")
	}
	if externalOrderID == "" {
		return nil, missing("externalOrderId", "CreatePaymentSession")
	}
	if session == nil {
		return nil, missing("paymentSessionRequest", "CreatePaymentSession")
	}
	return c.newRequest(http.MethodPost,
		c.apiURL("orders", ToPathValue(externalOrderID), "checkout"), accessToken, session)
}

// CreatePaymentSession opens a hosted payment page session for an order
func (c *Client) CreatePaymentSession(ctx context.Context, accessToken, externalOrderID string, session *CreateOrderEntryRequest) (*Result[CreatePaymentSessionResponse], error) {
	req, err := c.CreatePaymentSessionRequest(accessToken, externalOrderID, session)
	if err != nil {
		return nil, err
	}
	return process[CreatePaymentSessionResponse](ctx, c, req, true, false)
}

// GetOrderDetailsRequest builds the order lookup request.
func (c *Client) GetOrderDetailsRequest(orderID, accessToken string) (*Request, error) {
	if orderID == "" {
		return nil, missing("orderId", "GetOrderDetailsRequest")
	}
	if accessToken == "" {
		return nil, missing("accessToken", "GetOrderDetailsRequest")
	}
	return c.newRequest(http.MethodGet, c.apiURL("orders", ToPathValue(orderID)), accessToken, nil)
}

// GetOrderDetails fetches an order and its status
func (c *Client) GetOrderDetails(ctx context.Context, orderID, accessToken string) (*Result[GetOrderDetailsResponse], error) {
	req, err := c.GetOrderDetailsRequest(orderID, accessToken)
	if err != nil {
		return nil, err
	}
	return process[GetOrderDetailsResponse](ctx, c, req, true, false)
}

// GetTransactionDetailsRequest builds the transaction lookup request.
func (c *Client) GetTransactionDetailsRequest(orderID, transactionID, accessToken string) (*Request, error) {
	if orderID == "" {
		return nil, missing("orderId", "GetTransactionDetailsRequest")
	}
	if transactionID == "" {
		return nil, missing("transactionId", "GetTransactionDetailsRequest")
	}
	if accessToken == "" {
		return nil, missing("accessToken", "GetTransactionDetailsRequest")
	}
	return c.newRequest(http.MethodGet,
		c.apiURL("orders", ToPathValue(orderID), "transactions", ToPathValue(transactionID)), accessToken, nil)
}

// GetTransactionDetails fetches a single transaction of an order
func (c *Client) GetTransactionDetails(ctx context.Context, orderID, transactionID, accessToken string) (*Result[GetTransactionDetailsResponse], error) {
	req, err := c.GetTransactionDetailsRequest(orderID, transactionID, accessToken)
	if err != nil {
		return nil, err
	}
	return process[GetTransactionDetailsResponse](ctx, c, req, true, false)
}

// GetOrderTransactionsRequest builds the transaction list request.
func (c *Client) GetOrderTransactionsRequest(orderID, accessToken string) (*Request, error) {
	if orderID == "" {
		return nil, missing("orderId", "GetOrderTransactionsRequest")
	}
	if accessToken == "" {
		return nil, missing("accessToken", "GetOrderTransactionsRequest")
	}
	return c.newRequest(http.MethodGet,
		c.apiURL("orders", ToPathValue(orderID), "transactions"), accessToken, nil)
}

// GetOrderTransactions lists the transactions of an order
func (c *Client) GetOrderTransactions(ctx context.Context, orderID, accessToken string) (*Result[GetOrderTransactionsResponse], error) {
	req, err := c.GetOrderTransactionsRequest(orderID, accessToken)
	if err != nil {
		return nil, err
	}
	return process[GetOrderTransactionsResponse](ctx, c, req, true, false)
}

// RefundRequest builds the refund request for a transaction.
func (c *Client) RefundRequest(orderID, transactionID, accessToken string, refund *RefundRequest) (*Request, error) {
	if orderID == "" {
		return nil, missing("orderId", "RefundRequest")
	}
	if transactionID == "" {
		return nil, missing("transactionId", "RefundRequest")
	}
	if accessToken == "" {
		return nil, missing("accessToken", "RefundRequest")
	}
	if refund == nil {
		return nil, missing("refundRequest", "RefundRequest")
	}
	return c.newRequest(http.MethodPost,
		c.apiURL("orders", ToPathValue(orderID), "transactions", ToPathValue(transactionID), "refund"),
		accessToken, refund)
}

// Refund refunds all or part of a transaction
func (c *Client) Refund(ctx context.Context, orderID, transactionID, accessToken string, refund *RefundRequest) (*Result[RefundResponse], error) {
	req, err := c.RefundRequest(orderID, transactionID, accessToken, refund)
	if err != nil {
		return nil, err
	}
	return process[RefundResponse](ctx, c, req, true, false)
}
