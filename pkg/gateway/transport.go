package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/trailquest/trailquest-go/pkg/httputil"
	"github.com/trailquest/trailquest-go/pkg/observability"
)

// TokenSource is the slice of the session controller the gateway needs.
// Token returns a currently valid credential (empty means none). Refresh
// forces a renewal; it joins the controller's single renewal in flight, so
// a gateway-triggered renewal and a timer-triggered one never race.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Transport attaches credentials to outgoing requests and transparently
// retries once after a credential rejection. It implements
// http.RoundTripper.
type Transport struct {
	base           http.RoundTripper
	sessions       TokenSource
	onAuthRequired func()
	logger         *observability.Logger
	metrics        *observability.Metrics
}

// Option configures a Transport
type Option func(*Transport)

// WithBase sets the underlying round tripper (default
// http.DefaultTransport)
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) { t.base = rt }
}

// WithOnAuthRequired sets the hook fired when a request cannot be
// authenticated even after a renewal. UIs route to the login screen here.
func WithOnAuthRequired(fn func()) Option {
	return func(t *Transport) { t.onAuthRequired = fn }
}

// WithLogger sets the transport's logger
func WithLogger(logger *observability.Logger) Option {
	return func(t *Transport) { t.logger = logger }
}

// WithMetrics sets the transport's metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Transport) { t.metrics = m }
}

// NewTransport creates a gateway transport over the given session
// controller
func NewTransport(sessions TokenSource, opts ...Option) *Transport {
	t := &Transport{
		base:     http.DefaultTransport,
		sessions: sessions,
		logger:   observability.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithField("component", "gateway")
	return t
}

// NewClient returns an http.Client whose requests go through the gateway
func NewClient(sessions TokenSource, opts ...Option) *http.Client {
	return &http.Client{Transport: NewTransport(sessions, opts...)}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := t.sessions.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("gateway: credential lookup failed: %w", err)
	}

	resp, err := t.base.RoundTrip(t.prepare(req, token))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.observe(resp.StatusCode, token != "")
		return resp, nil
	}

	// credential rejected: renew once and re-send once
	newToken, err := t.sessions.Refresh(ctx)
	if err != nil || newToken == "" {
		t.logger.Warn("credential rejected and renewal unavailable")
		t.observe(resp.StatusCode, token != "")
		t.signalAuthRequired()
		if err != nil {
			httputil.DrainAndClose(resp)
			return nil, fmt.Errorf("gateway: renewal after rejection failed: %w", err)
		}
		return resp, nil
	}

	retry, ok := t.rewind(req, newToken)
	if !ok {
		// renewed, but the body cannot be replayed; the caller gets the 401
		t.logger.Warn("cannot replay request body after renewal")
		t.observe(resp.StatusCode, true)
		return resp, nil
	}
	httputil.DrainAndClose(resp)
	t.metrics.ObserveGatewayRetry()
	t.logger.Debug("re-sending request with renewed credential")

	resp2, err := t.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	if resp2.StatusCode == http.StatusUnauthorized {
		// the renewed credential was rejected too; no third attempt
		t.signalAuthRequired()
	}
	t.observe(resp2.StatusCode, true)
	return resp2, nil
}

// prepare clones the request and attaches headers. Empty token means the
// request goes out unauthenticated rather than being blocked.
func (t *Transport) prepare(req *http.Request, token string) *http.Request {
	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}
	return out
}

// rewind rebuilds the request with a fresh body for the retry. Requests
// without a body always rewind; requests with one need GetBody.
func (t *Transport) rewind(req *http.Request, token string) (*http.Request, bool) {
	out := t.prepare(req, token)
	if req.Body == nil {
		return out, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	out.Body = body
	return out, true
}

func (t *Transport) observe(status int, authenticated bool) {
	t.metrics.ObserveGatewayRequest(statusClass(status), authenticated)
}

func (t *Transport) signalAuthRequired() {
	if t.onAuthRequired != nil {
		t.onAuthRequired()
	}
}

func statusClass(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
