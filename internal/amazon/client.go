package amazon

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/andretaki/amazon-ads-project2024/internal/config"
	apperrors "github.com/andretaki/amazon-ads-project2024/internal/errors"
)

const (
	// TokenPath is the Login with Amazon token endpoint
	TokenPath = "/auth/o2/token"
	// ReportsPath is the Advertising API asynchronous report endpoint
	ReportsPath = "/reporting/reports"
)

// Request is a single outbound call to an Amazon endpoint
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is the fully read reply of an Amazon endpoint
type Response struct {
	StatusCode int
	Body       []byte
}

// Sender performs one request/response exchange. Implementations must release
// the connection before returning, whatever the outcome.
type Sender interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Verify that Client implements Sender interface
var _ Sender = (*Client)(nil)

// Client handles HTTP exchanges with Amazon endpoints
type Client struct {
	http *http.Client
}

// createHTTPClient creates an HTTP client with custom TLS configuration
func createHTTPClient(cfg config.HTTPConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	tlsConfig := &tls.Config{}

	if cfg.InsecureTLS {
		tlsConfig.InsecureSkipVerify = true
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate from %s: %w", cfg.CACertPath, err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", cfg.CACertPath)
		}

		tlsConfig.RootCAs = caCertPool
	}

	transport.TLSClientConfig = tlsConfig

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}

// NewClient creates a new Amazon HTTP client
func NewClient(cfg config.HTTPConfig) (*Client, error) {
	httpClient, err := createHTTPClient(cfg)
	if err != nil {
		return nil, apperrors.NewErrorWithCause(apperrors.ErrConfigurationError, "Invalid HTTP TLS configuration", err)
	}
	return &Client{http: httpClient}, nil
}

// NewClientWithHTTP creates a client around an existing *http.Client
// This is primarily used for testing with fake transports
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{http: httpClient}
}

// Send performs the request and reads the whole response body. The body is
// closed on every path.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, apperrors.NewErrorWithCause(apperrors.ErrInvalidInput, "Failed to build request", err)
	}

	// Header names are sent exactly as Amazon documents them
	for key, value := range req.Headers {
		httpReq.Header[key] = []string{value}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewErrorWithCause(apperrors.ErrTransport, fmt.Sprintf("%s %s failed", req.Method, req.URL), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewErrorWithCause(apperrors.ErrTransport, "Failed to read response body", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}

// JoinURL joins a configured base URL and an endpoint path
func JoinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
