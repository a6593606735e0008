package raiaccept

import (
	"net/http"
	"time"
)

// Default gateway endpoints
const (
	DefaultAuthURL   = "https://api.raiaccept.com"
	DefaultAPIURL    = "https://api.raiaccept.com"
	DefaultLoginPath = "/auth/api/login"

	// DefaultLimit is the length limit applied by TransliterateAndLimitLength
	// when no positive limit is given.
	DefaultLimit = 127
)

// Payment statuses reported by the gateway
const (
	StatusPending   = "PENDING"
	StatusSuccess   = "SUCCESS"
	StatusPaid      = "PAID"
	StatusFailed    = "FAILED"
	StatusCanceled  = "CANCELED"
	StatusAbandoned = "ABANDONED"
)

// Transaction types
const (
	TransactionTypePurchase = "PURCHASE"
	TransactionTypeRefund   = "REFUND"
)

// AuthScheme selects how the client obtains its bearer token.
type AuthScheme string

const (
	// AuthSchemeMTLS logs in against /auth/api/login presenting the client
	// certificate and receives an access/refresh token pair.
	AuthSchemeMTLS AuthScheme = "mtls"
	// AuthSchemeBearer exchanges username/password with an identity provider
	// without a client certificate and receives an AuthResponse.
	AuthSchemeBearer AuthScheme = "bearer"
)

// Valid reports whether s is a known scheme.
func (s AuthScheme) Valid() bool {
	return s == AuthSchemeMTLS || s == AuthSchemeBearer
}

var acceptedLanguages = []string{"en", "de", "fr", "cs", "sk", "sr", "al", "ro", "pl", "hr"}

// AcceptedLanguages returns the language codes the hosted payment page supports.
func AcceptedLanguages() []string {
	out := make([]string, len(acceptedLanguages))
	copy(out, acceptedLanguages)
	return out
}

// Request describes a single HTTP exchange. Certificate and PrivateKey are
// PEM encoded; both must be set for the call to present a client certificate.
type Request struct {
	Method      string
	URL         string
	Headers     map[string]string
	Body        string
	Certificate []byte
	PrivateKey  []byte
}

// Response is the raw outcome of a request as returned by a Transport.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       string
}

// Result wraps a decoded object together with the raw response it came from.
type Result[T any] struct {
	Object   *T
	Response *Response
}

// ClientConfig holds the configuration for the RaiAccept client
type ClientConfig struct {
	AuthURL    string
	APIURL     string
	AuthScheme AuthScheme
	// LoginPath is appended to AuthURL for the login call.
	LoginPath   string
	Certificate []byte
	PrivateKey  []byte
	Timeout     time.Duration
	Logger      Logger
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		AuthURL:    DefaultAuthURL,
		APIURL:     DefaultAPIURL,
		AuthScheme: AuthSchemeMTLS,
		LoginPath:  DefaultLoginPath,
		Timeout:    30 * time.Second,
	}
}

func (c *ClientConfig) withDefaults() *ClientConfig {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	if out.AuthURL == "" {
		out.AuthURL = DefaultAuthURL
	}
	if out.APIURL == "" {
		out.APIURL = DefaultAPIURL
	}
	if out.AuthScheme == "" {
		out.AuthScheme = AuthSchemeMTLS
	}
	if out.LoginPath == "" {
		out.LoginPath = DefaultLoginPath
	}
	if out.Timeout == 0 {
		out.Timeout = 30 * time.Second
	}
	return &out
}
