package api

import (
	"context"
	"net/http"
	"time"

	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type endpointKey struct{}

func withEndpoint(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, endpointKey{}, name)
}

func endpointFrom(ctx context.Context) string {
	if v, ok := ctx.Value(endpointKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// authTransport attaches the session bearer token, read fresh for each request.
type authTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.tokens == nil {
		return t.next.RoundTrip(r)
	}
	tok, ok := t.tokens.Token(r.Context())
	if !ok {
		return t.next.RoundTrip(r)
	}
	r2 := r.Clone(r.Context())
	r2.Header.Set("Authorization", "Bearer "+tok)
	return t.next.RoundTrip(r2)
}

// metricsTransport tags requests with an id and records latency per endpoint.
type metricsTransport struct {
	next http.RoundTripper
	log  *zerolog.Logger
}

func (t *metricsTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	rid, ok := logging.TraceIDFrom(ctx)
	if !ok {
		rid = uuid.NewString()
	}
	r2 := r.Clone(ctx)
	r2.Header.Set("X-Request-ID", rid)

	endpoint := endpointFrom(ctx)
	start := time.Now()
	resp, err := t.next.RoundTrip(r2)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.ObserveAPIRequest(endpoint, status, elapsed.Milliseconds())

	ev := t.log.Debug()
	if err != nil {
		ev = t.log.Warn().Err(err)
	}
	ev.Str("endpoint", endpoint).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", rid).
		Int("status", status).
		Dur("duration", elapsed).
		Msg("api_request")
	return resp, err
}
