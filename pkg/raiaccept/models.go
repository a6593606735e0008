package raiaccept

import "github.com/shopspring/decimal"

// Address is a billing or shipping address
type Address struct {
	AddressStreet1 string `json:"addressStreet1"`
	AddressStreet2 string `json:"addressStreet2"`
	AddressStreet3 string `json:"addressStreet3"`
	City           string `json:"city"`
	Country        string `json:"country"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PostalCode     string `json:"postalCode"`
	State          string `json:"state"`
}

// FromObject fills the Address from a decoded JSON value.
func (a *Address) FromObject(data any) error { return decodeInto(data, a) }

// Consumer identifies the paying customer
type Consumer struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	IPAddress   string `json:"ipAddress"`
	LastName    string `json:"lastName"`
	MobilePhone string `json:"mobilePhone"`
	Phone       string `json:"phone"`
	WorkPhone   string `json:"workPhone"`
}

// FromObject fills the Consumer from a decoded JSON value.
func (c *Consumer) FromObject(data any) error { return decodeInto(data, c) }

// InvoiceItem is a single invoice line
type InvoiceItem struct {
	Description   string          `json:"description"`
	NumberOfItems int             `json:"numberOfItems"`
	Price         decimal.Decimal `json:"price"`
}

// FromObject fills the InvoiceItem from a decoded JSON value.
func (i *InvoiceItem) FromObject(data any) error { return decodeInto(data, i) }

// Invoice holds the amount to charge and the merchant's order reference
type Invoice struct {
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
	Description            string          `json:"description"`
	Items                  []InvoiceItem   `json:"items"`
	MerchantOrderReference string          `json:"merchantOrderReference"`
}

// FromObject fills the Invoice from a decoded JSON value.
func (i *Invoice) FromObject(data any) error { return decodeInto(data, i) }

// Urls are the redirect and notification targets for a payment
type Urls struct {
	CancelURL       string `json:"cancelUrl"`
	FailURL         string `json:"failUrl"`
	SuccessURL      string `json:"successUrl"`
	NotificationURL string `json:"notificationUrl,omitempty"`
}

// FromObject fills the Urls from a decoded JSON value.
func (u *Urls) FromObject(data any) error { return decodeInto(data, u) }

// Recurring configures card-on-file payments
type Recurring struct {
	CardToken         string `json:"cardToken"`
	CustomerReference string `json:"customerReference"`
	RecurringModel    string `json:"recurringModel"`
}

// FromObject fills the Recurring from a decoded JSON value.
func (r *Recurring) FromObject(data any) error { return decodeInto(data, r) }

// Merchant identifies the merchant account an order belongs to
type Merchant struct {
	MerchantAccountID               string `json:"merchantAccountId"`
	StatementDescriptorShortVersion string `json:"statementDescriptorShortVersion"`
}

// FromObject fills the Merchant from a decoded JSON value.
func (m *Merchant) FromObject(data any) error { return decodeInto(data, m) }

// Card holds raw card data
type Card struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
}

// FromObject fills the Card from a decoded JSON value.
func (c *Card) FromObject(data any) error { return decodeInto(data, c) }

// CreateOrderEntryRequest is the request body for POST /orders and
// POST /orders/{orderId}/checkout
type CreateOrderEntryRequest struct {
	BillingAddress          *Address   `json:"billingAddress"`
	Consumer                *Consumer  `json:"consumer"`
	Invoice                 *Invoice   `json:"invoice"`
	PaymentMethodPreference string     `json:"paymentMethodPreference"`
	ShippingAddress         *Address   `json:"shippingAddress"`
	Urls                    *Urls      `json:"urls"`
	LinkID                  string     `json:"linkId"`
	Recurring               *Recurring `json:"recurring"`
}

// FromObject fills the CreateOrderEntryRequest from a decoded JSON value.
func (r *CreateOrderEntryRequest) FromObject(data any) error { return decodeInto(data, r) }

// MerchantOrderReference returns the invoice's merchant reference or "".
func (r *CreateOrderEntryRequest) MerchantOrderReference() string {
	if r == nil || r.Invoice == nil {
		return ""
	}
	return r.Invoice.MerchantOrderReference
}

// CreateOrderEntryResponse echoes the order and adds the gateway's identifiers
type CreateOrderEntryResponse struct {
	CreateOrderEntryRequest
	OrderIdentification string    `json:"orderIdentification"`
	Merchant            *Merchant `json:"merchant"`
	CreatedOn           string    `json:"createdOn"`
	IsProduction        bool      `json:"isProduction"`
}

// FromObject fills the CreateOrderEntryResponse from a decoded JSON value.
func (r *CreateOrderEntryResponse) FromObject(data any) error {
	if err := r.CreateOrderEntryRequest.FromObject(data); err != nil {
		return err
	}
	return decodeInto(data, r)
}

// CreatePaymentSessionResponse carries the hosted payment page redirect
type CreatePaymentSessionResponse struct {
	SessionID          string `json:"sessionId"`
	PaymentRedirectURL string `json:"paymentRedirectURL"`
	ExpiresAt          string `json:"expiresAt"`
}

// FromObject fills the CreatePaymentSessionResponse from a decoded JSON value.
func (r *CreatePaymentSessionResponse) FromObject(data any) error { return decodeInto(data, r) }

// GetOrderDetailsResponse is an order plus its current status
type GetOrderDetailsResponse struct {
	CreateOrderEntryRequest
	Status string `json:"status"`
}

// FromObject fills the GetOrderDetailsResponse from a decoded JSON value.
func (r *GetOrderDetailsResponse) FromObject(data any) error {
	if err := r.CreateOrderEntryRequest.FromObject(data); err != nil {
		return err
	}
	return decodeInto(data, r)
}

// Transaction is a single payment or refund on an order
type Transaction struct {
	TransactionID       string          `json:"transactionId"`
	TransactionAmount   decimal.Decimal `json:"transactionAmount"`
	TransactionCurrency string          `json:"transactionCurrency"`
	IsProduction        bool            `json:"isProduction"`
	TransactionType     string          `json:"transactionType"`
	PaymentMethod       string          `json:"paymentMethod"`
	Status              string          `json:"status"`
	StatusCode          string          `json:"statusCode"`
	StatusMessage       string          `json:"statusMessage"`
	CreatedOn           string          `json:"createdOn"`
	UpdatedOn           string          `json:"updatedOn"`
}

// FromObject fills the Transaction from a decoded JSON value.
func (t *Transaction) FromObject(data any) error { return decodeInto(data, t) }

// IsPaid reports whether the transaction status is in the paid set.
func (t *Transaction) IsPaid() bool { return IsPaid(t.Status) }

// IsRejected reports whether the transaction status is in the rejected set.
func (t *Transaction) IsRejected() bool { return IsRejected(t.Status) }

// GetOrderTransactionsResponse lists the transactions of an order. The
// gateway answers either with a bare array or with {"transactions": [...]}.
type GetOrderTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// FromObject fills the GetOrderTransactionsResponse from a decoded JSON value.
func (r *GetOrderTransactionsResponse) FromObject(data any) error {
	list := data
	if m, ok := data.(map[string]any); ok {
		list = m["transactions"]
	}
	items, ok := list.([]any)
	if !ok {
		r.Transactions = []Transaction{}
		return nil
	}
	r.Transactions = make([]Transaction, len(items))
	for i, item := range items {
		if err := r.Transactions[i].FromObject(item); err != nil {
			return err
		}
	}
	return nil
}

// GetTransactionDetailsResponse is a transaction plus the raw order it belongs to
type GetTransactionDetailsResponse struct {
	Transaction
	Order any `json:"order"`
}

// FromObject fills the GetTransactionDetailsResponse from a decoded JSON value.
func (r *GetTransactionDetailsResponse) FromObject(data any) error {
	if err := r.Transaction.FromObject(data); err != nil {
		return err
	}
	if m, ok := data.(map[string]any); ok {
		r.Order = m["order"]
	}
	return nil
}

// RefundRequest is the request body for a refund
type RefundRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// FromObject fills the RefundRequest from a decoded JSON value.
func (r *RefundRequest) FromObject(data any) error { return decodeInto(data, r) }

// RefundResponse is the result of a refund
type RefundResponse struct {
	RefundID string          `json:"refundId"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// FromObject fills the RefundResponse from a decoded JSON value.
func (r *RefundResponse) FromObject(data any) error { return decodeInto(data, r) }

// ErrorResponse is the body the gateway returns with status 400
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// FromObject fills the ErrorResponse from a decoded JSON value.
func (e *ErrorResponse) FromObject(data any) error { return decodeInto(data, e) }

// AuthAPILoginInput is the request body for /auth/api/login
type AuthAPILoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FromObject fills the AuthAPILoginInput from a decoded JSON value.
func (i *AuthAPILoginInput) FromObject(data any) error { return decodeInto(data, i) }

// AuthAPILoginOutput is the token pair issued by the mTLS login
type AuthAPILoginOutput struct {
	AccessToken           string `json:"accessToken"`
	AccessTokenExpiresIn  int    `json:"accessTokenExpiresIn"`
	RefreshToken          string `json:"refreshToken"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn"`
}

// FromObject fills the AuthAPILoginOutput from a decoded JSON value.
func (o *AuthAPILoginOutput) FromObject(data any) error { return decodeInto(data, o) }

// AuthAPIRefreshInput is the request body for /auth/api/refresh
type AuthAPIRefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// FromObject fills the AuthAPIRefreshInput from a decoded JSON value.
func (i *AuthAPIRefreshInput) FromObject(data any) error { return decodeInto(data, i) }

// AuthAPIRefreshOutput is a freshly issued access token
type AuthAPIRefreshOutput struct {
	AccessToken          string `json:"accessToken"`
	AccessTokenExpiresIn int    `json:"accessTokenExpiresIn"`
}

// FromObject fills the AuthAPIRefreshOutput from a decoded JSON value.
func (o *AuthAPIRefreshOutput) FromObject(data any) error { return decodeInto(data, o) }

// AuthAPILogoutInput is the request body for /auth/api/logout
type AuthAPILogoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

// FromObject fills the AuthAPILogoutInput from a decoded JSON value.
func (i *AuthAPILogoutInput) FromObject(data any) error { return decodeInto(data, i) }

// AuthenticationResult is the token set issued by the identity provider
type AuthenticationResult struct {
	AccessToken  string `json:"AccessToken"`
	ExpiresIn    int    `json:"ExpiresIn"`
	IDToken      string `json:"IdToken"`
	RefreshToken string `json:"RefreshToken"`
	TokenType    string `json:"TokenType"`
}

// FromObject fills the AuthenticationResult from a decoded JSON value.
func (a *AuthenticationResult) FromObject(data any) error { return decodeInto(data, a) }

// ChallengeParameters holds any extra challenge the identity provider asks for
type ChallengeParameters map[string]any

// FromObject fills the ChallengeParameters from a decoded JSON value.
func (c *ChallengeParameters) FromObject(data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	*c = m
	return nil
}

// AuthResponse is the response of the bearer-scheme login
type AuthResponse struct {
	AuthenticationResult *AuthenticationResult `json:"AuthenticationResult"`
	ChallengeParameters  ChallengeParameters   `json:"ChallengeParameters"`
}

// FromObject fills the AuthResponse from a decoded JSON value.
func (r *AuthResponse) FromObject(data any) error { return decodeInto(data, r) }

// IDToken returns the identity token or "" when the provider issued none.
func (r *AuthResponse) IDToken() string {
	if r == nil || r.AuthenticationResult == nil {
		return ""
	}
	return r.AuthenticationResult.IDToken
}

// NotificationWebhookRequest is the payload the gateway posts to the
// notification URL of an order
type NotificationWebhookRequest struct {
	OrderID       string          `json:"orderId"`
	TransactionID string          `json:"transactionId"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Timestamp     string          `json:"timestamp"`
}

// FromObject fills the NotificationWebhookRequest from a decoded JSON value.
func (n *NotificationWebhookRequest) FromObject(data any) error { return decodeInto(data, n) }
