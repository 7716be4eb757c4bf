// Package api is the REST client for the LocalServices backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"localservices-frontend/internal/infra/logging"

	"github.com/rs/zerolog"
)

// TokenSource yields the bearer token to attach, if any. It is consulted on
// every request.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Response carries the decoded body and the HTTP status of a 2xx reply.
type Response[T any] struct {
	Data   T
	Status int
}

type Client struct {
	base           string
	http           *http.Client
	tokens         TokenSource
	log            *zerolog.Logger
	onUnauthorized func(ctx context.Context)
}

type Option func(*clientOptions)

type clientOptions struct {
	httpClient     *http.Client
	timeout        time.Duration
	log            *zerolog.Logger
	onUnauthorized func(ctx context.Context)
}

// WithHTTPClient supplies the underlying client. Its Transport is wrapped, not replaced.
func WithHTTPClient(c *http.Client) Option { return func(o *clientOptions) { o.httpClient = c } }

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option { return func(o *clientOptions) { o.timeout = d } }

func WithLogger(l *zerolog.Logger) Option { return func(o *clientOptions) { o.log = l } }

// WithUnauthorizedHandler registers fn to run when an authenticated request
// comes back 401. Without it a 401 is returned like any other APIError.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(o *clientOptions) { o.onUnauthorized = fn }
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Nop()
	}
	hc := &http.Client{}
	if o.httpClient != nil {
		cp := *o.httpClient
		hc = &cp
	}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = &authTransport{
		next:   &metricsTransport{next: next, log: o.log},
		tokens: tokens,
	}
	return &Client{
		base:           strings.TrimRight(baseURL, "/"),
		http:           hc,
		tokens:         tokens,
		log:            o.log,
		onUnauthorized: o.onUnauthorized,
	}, nil
}

// BaseURL returns the configured API root without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

type request struct {
	endpoint    string // metrics label, e.g. "auth.login"
	method      string
	path        string
	query       url.Values
	body        any
	rawBody     io.Reader
	contentType string
}

func jsonRequest(endpoint, method, path string, body any) request {
	return request{endpoint: endpoint, method: method, path: path, body: body}
}

// do sends req and decodes a 2xx body into T. An empty body leaves T zero.
func do[T any](ctx context.Context, c *Client, req request) (*Response[T], error) {
	target := c.base + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := req.contentType
	switch {
	case req.rawBody != nil:
		body = req.rawBody
	case req.body != nil:
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", req.endpoint, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(withEndpoint(ctx, req.endpoint), req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.endpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &APIError{Endpoint: req.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Endpoint: req.endpoint, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(req.endpoint, resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil && c.hasToken(ctx) {
			c.onUnauthorized(ctx)
		}
		return nil, apiErr
	}

	out := &Response[T]{Status: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out.Data); err != nil {
		return nil, &APIError{Endpoint: req.endpoint, Status: resp.StatusCode, Body: raw, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

func (c *Client) hasToken(ctx context.Context) bool {
	if c.tokens == nil {
		return false
	}
	_, ok := c.tokens.Token(ctx)
	return ok
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
