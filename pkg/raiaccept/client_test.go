package raiaccept

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessToken = "test-access-token"

type logEntry struct {
	message string
	data    any
	isError bool
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Log(message string, data any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{message: message, data: data})
}

func (l *recordingLogger) Error(message string, data any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{message: message, data: data, isError: true})
}

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

type panickingLogger struct{}

func (panickingLogger) Log(string, any)   { panic("log sink down") }
func (panickingLogger) Error(string, any) { panic("log sink down") }

// mockServer creates a test server that checks method and path, hands the
// request to validate and answers with status and body
func mockServer(t *testing.T, method, path string, validate func(r *http.Request, body []byte), status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			t.Errorf("Expected %s, got %s", method, r.Method)
		}
		if r.URL.EscapedPath() != path {
			t.Errorf("Expected path %s, got %s", path, r.URL.EscapedPath())
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		reqBody, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read body: %v", err)
		}
		if validate != nil {
			validate(r, reqBody)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// unreachableServer fails the test if any request reaches it
func unreachableServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// generateKeyPair returns a self-signed PEM certificate and key
func generateKeyPair(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "merchant-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}

func newTestConfig(t *testing.T, baseURL string) *ClientConfig {
	cert, key := generateKeyPair(t)
	return &ClientConfig{
		AuthURL:     baseURL,
		APIURL:      baseURL,
		Certificate: cert,
		PrivateKey:  key,
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	return NewClientWithHTTPClient(newTestConfig(t, srv.URL), srv.Client())
}

func TestToken(t *testing.T) {
	srv := mockServer(t, http.MethodPost, "/auth/api/login", func(r *http.Request, body []byte) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.JSONEq(t, `{"username":"merchant","password":"secret"}`, string(body))
	}, http.StatusOK, `{"accessToken":"at","accessTokenExpiresIn":3600,"refreshToken":"rt","refreshTokenExpiresIn":86400}`)

	res, err := newTestClient(t, srv).Token(context.Background(), "merchant", "secret")
	require.NoError(t, err)
	require.NotNil(t, res.Object)
	assert.Equal(t, "at", res.Object.AccessToken)
	assert.Equal(t, 3600, res.Object.AccessTokenExpiresIn)
	assert.Equal(t, "rt", res.Object.RefreshToken)
	assert.Equal(t, http.StatusOK, res.Response.StatusCode)
}

func TestTokenRefresh(t *testing.T) {
	srv := mockServer(t, http.MethodPost, "/auth/api/refresh", func(r *http.Request, body []byte) {
		assert.JSONEq(t, `{"refreshToken":"rt"}`, string(body))
	}, http.StatusOK, `{"accessToken":"at2","accessTokenExpiresIn":3600}`)

	res, err := newTestClient(t, srv).TokenRefresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "at2", res.Object.AccessToken)
}

func TestTokenLogout(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent, http.StatusBadRequest, http.StatusInternalServerError} {
		srv := mockServer(t, http.MethodPost, "/auth/api/logout", func(r *http.Request, body []byte) {
			assert.JSONEq(t, `{"refreshToken":"rt"}`, string(body))
		}, status, `{}`)

		got := newTestClient(t, srv).TokenLogout(context.Background(), "rt")
		assert.Equal(t, status == http.StatusOK, got, "status %d", status)
	}

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		client := newTestClient(t, srv)
		srv.Close()
		assert.False(t, client.TokenLogout(context.Background(), "rt"))
	})

	t.Run("missing token", func(t *testing.T) {
		logger := &recordingLogger{}
		cfg := newTestConfig(t, unreachableServer(t).URL)
		cfg.Logger = logger
		assert.False(t, NewClient(cfg).TokenLogout(context.Background(), ""))
		require.Len(t, logger.all(), 1)
		assert.True(t, logger.all()[0].isError)
	})
}

func TestCreateOrderEntry(t *testing.T) {
	srv := mockServer(t, http.MethodPost, "/orders", func(r *http.Request, body []byte) {
		assert.Equal(t, "Bearer "+testAccessToken, r.Header.Get("Authorization"))
		var sent map[string]any
		require.NoError(t, json.Unmarshal(body, &sent))
		invoice := sent["invoice"].(map[string]any)
		assert.Equal(t, 25.5, invoice["amount"])
		assert.Equal(t, "ref-42", invoice["merchantOrderReference"])
	}, http.StatusCreated, `{"orderIdentification":"ord-1","invoice":{"amount":25.5,"currency":"EUR","merchantOrderReference":"ref-42"}}`)

	res, err := newTestClient(t, srv).CreateOrderEntry(context.Background(), testAccessToken, sampleOrder())
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.Response.StatusCode)
	require.NotNil(t, res.Object)
	assert.Equal(t, "ord-1", res.Object.OrderIdentification)
	assert.Equal(t, "ref-42", res.Object.MerchantOrderReference())
	assert.True(t, decimal.RequireFromString("25.5").Equal(res.Object.Invoice.Amount))
}

func TestCreatePaymentSession(t *testing.T) {
	srv := mockServer(t, http.MethodPost, "/orders/ord-1/checkout", nil, http.StatusOK,
		`{"sessionId":"s-1","paymentRedirectURL":"https://pay.example.com/s-1","expiresAt":"2024-01-01T00:00:00Z"}`)

	res, err := newTestClient(t, srv).CreatePaymentSession(context.Background(), testAccessToken, "ord-1", sampleOrder())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/s-1", res.Object.PaymentRedirectURL)
}

func TestGetEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("order details", func(t *testing.T) {
		srv := mockServer(t, http.MethodGet, "/orders/ord%201", func(r *http.Request, body []byte) {
			assert.Empty(t, body)
		}, http.StatusOK, `{"status":"PAID"}`)
		res, err := newTestClient(t, srv).GetOrderDetails(ctx, "ord 1", testAccessToken)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, res.Object.Status)
	})

	t.Run("transactions", func(t *testing.T) {
		srv := mockServer(t, http.MethodGet, "/orders/ord-1/transactions", nil, http.StatusOK,
			`[{"transactionId":"tx-1","transactionType":"PURCHASE"}]`)
		res, err := newTestClient(t, srv).GetOrderTransactions(ctx, "ord-1", testAccessToken)
		require.NoError(t, err)
		require.Len(t, res.Object.Transactions, 1)
		assert.Equal(t, TransactionTypePurchase, res.Object.Transactions[0].TransactionType)
	})

	t.Run("transaction", func(t *testing.T) {
		srv := mockServer(t, http.MethodGet, "/orders/ord-1/transactions/tx%2F1", nil, http.StatusOK,
			`{"transactionId":"tx/1","status":"SUCCESS"}`)
		res, err := newTestClient(t, srv).GetTransactionDetails(ctx, "ord-1", "tx/1", testAccessToken)
		require.NoError(t, err)
		assert.True(t, res.Object.IsPaid())
	})

	t.Run("refund", func(t *testing.T) {
		srv := mockServer(t, http.MethodPost, "/orders/ord-1/transactions/tx-1/refund", func(r *http.Request, body []byte) {
			assert.JSONEq(t, `{"amount":5,"currency":"EUR"}`, string(body))
		}, http.StatusOK, `{"refundId":"rf-1","status":"SUCCESS","amount":5,"currency":"EUR"}`)
		res, err := newTestClient(t, srv).Refund(ctx, "ord-1", "tx-1", testAccessToken,
			&RefundRequest{Amount: decimal.NewFromInt(5), Currency: "EUR"})
		require.NoError(t, err)
		assert.Equal(t, "rf-1", res.Object.RefundID)
	})
}

func TestAPIErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("404 has no decoded object", func(t *testing.T) {
		srv := mockServer(t, http.MethodGet, "/orders/ord-1", nil, http.StatusNotFound, `{"message":"not found"}`)
		_, err := newTestClient(t, srv).GetOrderDetails(ctx, "ord-1", testAccessToken)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "[404] Error connecting to the API ("+srv.URL+"/orders/ord-1)", apiErr.Error())
		assert.Equal(t, `{"message":"not found"}`, apiErr.Body)
		assert.Nil(t, apiErr.ResponseObject())
		_, ok := apiErr.ErrorResponse()
		assert.False(t, ok)
	})

	t.Run("400 carries error response", func(t *testing.T) {
		srv := mockServer(t, http.MethodPost, "/orders", nil, http.StatusBadRequest,
			`{"message":"invoice.amount is required","code":"VALIDATION"}`)
		_, err := newTestClient(t, srv).CreateOrderEntry(ctx, testAccessToken, sampleOrder())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		er, ok := apiErr.ErrorResponse()
		require.True(t, ok)
		assert.Equal(t, "invoice.amount is required", er.Message)
		assert.Equal(t, "VALIDATION", er.Code)
	})

	t.Run("400 with unparseable body", func(t *testing.T) {
		srv := mockServer(t, http.MethodPost, "/orders", nil, http.StatusBadRequest, `<html>bad</html>`)
		_, err := newTestClient(t, srv).CreateOrderEntry(ctx, testAccessToken, sampleOrder())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Nil(t, apiErr.ResponseObject())
	})

	t.Run("malformed success body", func(t *testing.T) {
		srv := mockServer(t, http.MethodGet, "/orders/ord-1", nil, http.StatusOK, `{"status":`)
		_, err := newTestClient(t, srv).GetOrderDetails(ctx, "ord-1", testAccessToken)

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, `{"status":`, decodeErr.Body)
	})

	t.Run("transport failure has no status", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		client := newTestClient(t, srv)
		srv.Close()

		_, err := client.GetOrderDetails(ctx, "ord-1", testAccessToken)
		require.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestValidationOrder(t *testing.T) {
	ctx := context.Background()
	srv := unreachableServer(t)
	client := newTestClient(t, srv)
	noCerts := NewClientWithHTTPClient(&ClientConfig{AuthURL: srv.URL, APIURL: srv.URL}, srv.Client())
	order := sampleOrder()
	refund := &RefundRequest{Amount: decimal.NewFromInt(1), Currency: "EUR"}

	tests := []struct {
		name  string
		call  func() error
		param string
	}{
		{"token username", func() error { _, err := client.Token(ctx, "", ""); return err }, "username"},
		{"token password", func() error { _, err := client.Token(ctx, "u", ""); return err }, "password"},
		{"token cert", func() error { _, err := noCerts.Token(ctx, "u", "p"); return err }, "cert"},
		{"refresh token", func() error { _, err := noCerts.TokenRefresh(ctx, ""); return err }, "refreshToken"},
		{"refresh cert", func() error { _, err := noCerts.TokenRefresh(ctx, "rt"); return err }, "cert"},
		{"bearer username", func() error { _, err := noCerts.BearerToken(ctx, "", "p"); return err }, "username"},
		{"create access token", func() error { _, err := client.CreateOrderEntry(ctx, "", nil); return err }, "accessToken"},
		{"create request", func() error { _, err := client.CreateOrderEntry(ctx, "tok", nil); return err }, "createOrderRequest"},
		{"session access token", func() error { _, err := client.CreatePaymentSession(ctx, "", "", nil); return err }, "accessToken"},
		{"session order id", func() error { _, err := client.CreatePaymentSession(ctx, "tok", "", nil); return err }, "externalOrderId"},
		{"session request", func() error { _, err := client.CreatePaymentSession(ctx, "tok", "o", nil); return err }, "paymentSessionRequest"},
		{"details order id", func() error { _, err := client.GetOrderDetails(ctx, "", ""); return err }, "orderId"},
		{"details access token", func() error { _, err := client.GetOrderDetails(ctx, "o", ""); return err }, "accessToken"},
		{"transaction order id", func() error { _, err := client.GetTransactionDetails(ctx, "", "", ""); return err }, "orderId"},
		{"transaction id", func() error { _, err := client.GetTransactionDetails(ctx, "o", "", ""); return err }, "transactionId"},
		{"transaction access token", func() error { _, err := client.GetTransactionDetails(ctx, "o", "t", ""); return err }, "accessToken"},
		{"transactions order id", func() error { _, err := client.GetOrderTransactions(ctx, "", "tok"); return err }, "orderId"},
		{"refund order id", func() error { _, err := client.Refund(ctx, "", "", "", nil); return err }, "orderId"},
		{"refund transaction id", func() error { _, err := client.Refund(ctx, "o", "", "", refund); return err }, "transactionId"},
		{"refund access token", func() error { _, err := client.Refund(ctx, "o", "t", "", refund); return err }, "accessToken"},
		{"refund request", func() error { _, err := client.Refund(ctx, "o", "t", "tok", nil); return err }, "refundRequest"},
		{"create ignores missing cert", func() error { _, err := noCerts.CreateOrderEntry(ctx, "", order); return err }, "accessToken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, ErrInvalidArgument)
			var argErr *InvalidArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.param, argErr.Param)
		})
	}
}

func TestRequestBuilders(t *testing.T) {
	client := NewClient(&ClientConfig{APIURL: "https://api.example.com/", AuthURL: "https://auth.example.com"})

	req, err := client.GetTransactionDetailsRequest("o 1", "t/2", "tok")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://api.example.com/orders/o%201/transactions/t%2F2", req.URL)
	assert.Equal(t, "Bearer tok", req.Headers["Authorization"])
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.Empty(t, req.Body)

	login, err := client.BearerTokenRequest("u", "p")
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com"+DefaultLoginPath, login.URL)
	assert.NotContains(t, login.Headers, "Authorization")
	assert.Nil(t, login.Certificate)
}

func TestRequestBodyRepairsDoubleEscapedNewlines(t *testing.T) {
	client := NewClient(DefaultConfig())
	order := sampleOrder()
	order.Invoice.Description = `line one\nline two`

	req, err := client.CreateOrderEntryRequest("tok", order)
	require.NoError(t, err)
	assert.Contains(t, req.Body, `"description":"line one\nline two"`)
	assert.NotContains(t, req.Body, `\\n`)
}

func TestRequestLoggingHidesAuthorization(t *testing.T) {
	logger := &recordingLogger{}
	srv := mockServer(t, http.MethodGet, "/orders/ord-1", func(r *http.Request, body []byte) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
	}, http.StatusOK, `{"status":"PENDING"}`)

	cfg := newTestConfig(t, srv.URL)
	cfg.Logger = logger
	_, err := NewClientWithHTTPClient(cfg, srv.Client()).GetOrderDetails(context.Background(), "ord-1", "abc")
	require.NoError(t, err)

	entries := logger.all()
	require.Len(t, entries, 2)

	logged := entries[0].data.(map[string]any)
	headers := logged["headers"].(map[string]string)
	assert.Equal(t, "HIDDEN", headers["Authorization"])
	assert.Equal(t, "application/json", headers["Content-Type"])
	assert.NotContains(t, logged, "key")

	response := entries[1].data.(map[string]any)
	assert.Equal(t, http.StatusOK, response["status"])
	assert.Equal(t, `{"status":"PENDING"}`, response["body"])
}

func TestAuthCallsAreNotLogged(t *testing.T) {
	logger := &recordingLogger{}
	srv := mockServer(t, http.MethodPost, "/auth/api/login", nil, http.StatusOK, `{"accessToken":"at"}`)

	cfg := newTestConfig(t, srv.URL)
	cfg.Logger = logger
	_, err := NewClientWithHTTPClient(cfg, srv.Client()).Token(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Empty(t, logger.all())
}

func TestPanickingLoggerDoesNotAffectCall(t *testing.T) {
	srv := mockServer(t, http.MethodGet, "/orders/ord-1", nil, http.StatusOK, `{"status":"PAID"}`)

	cfg := newTestConfig(t, srv.URL)
	cfg.Logger = panickingLogger{}
	res, err := NewClientWithHTTPClient(cfg, srv.Client()).GetOrderDetails(context.Background(), "ord-1", testAccessToken)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, res.Object.Status)
}

func TestMutualTLS(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
			t.Errorf("Expected a client certificate")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "merchant-test", r.TLS.PeerCertificates[0].Subject.CommonName)
		io.WriteString(w, `{"accessToken":"mtls-token"}`)
	}))
	srv.TLS = &tls.Config{ClientAuth: tls.RequireAnyClientCert}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv)
	res, err := client.Token(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "mtls-token", res.Object.AccessToken)

	noCerts := NewClientWithHTTPClient(&ClientConfig{AuthURL: srv.URL, APIURL: srv.URL}, srv.Client())
	_, err = noCerts.GetOrderDetails(context.Background(), "ord-1", testAccessToken)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestMutualTLSReusesConnections(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"orderIdentification":"ord-1","status":"PAID"}`)
	}))
	srv.TLS = &tls.Config{ClientAuth: tls.RequireAnyClientCert}
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv)
	for i := 0; i < 20; i++ {
		res, err := client.GetOrderDetails(context.Background(), "ord-1", testAccessToken)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, res.Object.Status)
	}
	assert.Equal(t, int32(1), conns.Load())
}

func TestInvalidClientCertificate(t *testing.T) {
	srv := unreachableServer(t)
	cfg := &ClientConfig{
		AuthURL:     srv.URL,
		Certificate: []byte("not a cert"),
		PrivateKey:  []byte("not a key"),
	}
	_, err := NewClientWithHTTPClient(cfg, srv.Client()).Token(context.Background(), "u", "p")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid client certificate"))
}
