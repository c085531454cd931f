// Package amazontest provides an in-memory http.RoundTripper for exercising
// the Amazon clients without network access.
package amazontest

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// CapturedRequest is a request seen by the fake transport
type CapturedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Transport replies to every request with a fixed status and body, or with Err
// when set. It records requests and counts how often response bodies are closed.
type Transport struct {
	StatusCode int
	Body       string
	Err        error

	mu       sync.Mutex
	requests []CapturedRequest
	closes   int
}

// NewTransport returns a transport answering with the given status and body
func NewTransport(statusCode int, body string) *Transport {
	return &Transport{StatusCode: statusCode, Body: body}
}

// NewFailingTransport returns a transport whose round trips always fail
func NewFailingTransport(err error) *Transport {
	return &Transport{Err: err}
}

// Client returns an *http.Client using this transport
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	t.mu.Lock()
	t.requests = append(t.requests, CapturedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	t.mu.Unlock()

	if t.Err != nil {
		return nil, t.Err
	}

	return &http.Response{
		StatusCode: t.StatusCode,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       &countingBody{Reader: bytes.NewReader([]byte(t.Body)), onClose: t.recordClose},
		Request:    req,
	}, nil
}

func (t *Transport) recordClose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closes++
}

// Requests returns the requests received so far
func (t *Transport) Requests() []CapturedRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]CapturedRequest(nil), t.requests...)
}

// CallCount returns the number of round trips performed
func (t *Transport) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

// CloseCount returns how many response bodies were closed
func (t *Transport) CloseCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closes
}

type countingBody struct {
	io.Reader
	onClose func()
}

func (b *countingBody) Close() error {
	b.onClose()
	return nil
}
