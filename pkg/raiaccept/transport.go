package raiaccept

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Transport performs a single HTTP exchange. Implementations must return
// every status code as a *Response; only connection-level failures are errors.
type Transport interface {
	Send(ctx context.Context, req *Request, omitLogging bool) (*Response, error)
}

// HTTPClient is the net/http backed Transport.
type HTTPClient struct {
	client *http.Client
	logger Logger

	mu       sync.Mutex
	mtls     *http.Client
	mtlsCert []byte
	mtlsKey  []byte
}

// NewHTTPClient wraps httpClient. A nil httpClient uses a fresh client with
// no timeout; a nil logger disables logging.
func NewHTTPClient(httpClient *http.Client, logger Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{client: httpClient, logger: logger}
}

// Send issues req. When both Certificate and PrivateKey are set the call
// presents them as a TLS client certificate.
func (c *HTTPClient) Send(ctx context.Context, req *Request, omitLogging bool) (*Response, error) {
	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	client, err := c.clientFor(req)
	if err != nil {
		return nil, err
	}

	if !omitLogging {
		safeLog(c.logger, false, "RaiAccept request", loggableRequest(req))
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("request to %s failed: %w", req.URL, err)
		if !omitLogging {
			safeLog(c.logger, true, "RaiAccept transport error", err.Error())
		}
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       string(respBody),
	}
	if !omitLogging {
		safeLog(c.logger, false, "RaiAccept response", map[string]any{
			"status":  resp.StatusCode,
			"headers": resp.Headers,
			"body":    resp.Body,
		})
	}
	return resp, nil
}

// clientFor returns the shared client, or the mTLS client built for the
// request's key pair. The mTLS client is built once per key pair so calls
// share its connection pool.
func (c *HTTPClient) clientFor(req *Request) (*http.Client, error) {
	if len(req.Certificate) == 0 || len(req.PrivateKey) == 0 {
		return c.client, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mtls != nil && bytes.Equal(c.mtlsCert, req.Certificate) && bytes.Equal(c.mtlsKey, req.PrivateKey) {
		return c.mtls, nil
	}

	cert, err := tls.X509KeyPair(req.Certificate, req.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid client certificate: %w", err)
	}

	base, ok := c.client.Transport.(*http.Transport)
	if !ok || base == nil {
		base = http.DefaultTransport.(*http.Transport)
	}
	tr := base.Clone()
	if tr.TLSClientConfig == nil {
		tr.TLSClientConfig = &tls.Config{}
	}
	tr.TLSClientConfig.Certificates = []tls.Certificate{cert}

	if c.mtls != nil {
		c.mtls.CloseIdleConnections()
	}
	cp := *c.client
	cp.Transport = tr
	c.mtls = &cp
	c.mtlsCert = bytes.Clone(req.Certificate)
	c.mtlsKey = bytes.Clone(req.PrivateKey)
	return c.mtls, nil
}

// loggableRequest is the request as it is written to the log: the
// Authorization value is hidden and key material is left out.
func loggableRequest(req *Request) map[string]any {
	headers := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		if strings.EqualFold(k, "Authorization") {
			v = "HIDDEN"
		}
		headers[k] = v
	}
	return map[string]any{
		"method":  req.Method,
		"url":     req.URL,
		"headers": headers,
		"body":    req.Body,
	}
}
