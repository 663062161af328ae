// Package apiclient is the single path from the console to the HRM backend.
//
// It attaches the current bearer token, resolves endpoints against the
// configured base URL, absorbs the backend's inconsistent enveloping and turns
// every failure into an *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hrmconsole/internal/platform/metrics"
)

const (
	DefaultTimeout  = 15 * time.Second
	maxResponseSize = 10 << 20
)

// TokenSource yields the bearer token to send, or "" for none. It is asked
// on every request.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.Collector
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type RequestOptions struct {
	Query  url.Values
	Body   any
	Header http.Header
}

func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, &RequestOptions{Query: query}, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, &RequestOptions{Body: body}, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, &RequestOptions{Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, endpoint, &RequestOptions{Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out)
}

// Do sends one request and decodes the (unwrapped) response into out, which
// may be nil. Empty success bodies leave out untouched.
func (c *Client) Do(ctx context.Context, method, endpoint string, opts *RequestOptions, out any) error {
	if opts == nil {
		opts = &RequestOptions{}
	}

	var body io.Reader
	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint, opts.Query), body)
	if err != nil {
		return &Error{Message: err.Error(), Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordAPI(method, 0, time.Since(start))
		c.logger.Warn("api request failed", "method", method, "endpoint", endpoint, "requestId", requestID, "err", err)
		return &Error{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	duration := time.Since(start)
	c.metrics.RecordAPI(method, resp.StatusCode, duration)
	c.logger.Debug("api request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"durationMs", duration.Milliseconds(),
		"requestId", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: failureMessage(resp.StatusCode, raw)}
	}
	if readErr != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", readErr), Err: readErr}
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	payload, err := unwrap(raw)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}
	return nil
}

// URL resolves endpoint against the base URL and appends query.
func (c *Client) URL(endpoint string, query url.Values) string {
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	full := c.baseURL + endpoint
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + query.Encode()
	}
	return full
}

// unwrap returns the data member of an envelope, or the body itself.
func unwrap(raw []byte) ([]byte, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("response is not JSON")
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return raw, nil
	}
	data, ok := envelope["data"]
	if !ok || isNull(data) {
		return raw, nil
	}
	return data, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
