// Package client fetches identity documents from the BankID provider.
//
// The client only moves bytes: it resolves the endpoint for a product tier,
// attaches the bearer token and classifies failures. Decoding belongs to the
// decoder package.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bankid/internal/claims/domain/shared"
	"bankid/pkg/platform/sentinel"
)

// Endpoint names a provider resource that serves a claims document.
type Endpoint string

const (
	// EndpointUserInfo serves the Connect product.
	EndpointUserInfo Endpoint = "userinfo"
	// EndpointProfile serves the Identify products.
	EndpointProfile Endpoint = "profile"
)

// EndpointFor returns the endpoint that serves the tier's document.
func EndpointFor(tier shared.Tier) Endpoint {
	if tier.IsIdentify() {
		return EndpointProfile
	}
	return EndpointUserInfo
}

const tracerName = "bankid/internal/claims/client"

// Client fetches claims documents.
type Client struct {
	baseURL string
	fetcher Fetcher
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// New creates a Client for the provider at baseURL.
func New(baseURL string, fetcher Fetcher, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		fetcher: fetcher,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserInfo fetches the Connect document.
func (c *Client) UserInfo(ctx context.Context, tokens TokenProvider) ([]byte, error) {
	return c.fetch(ctx, EndpointUserInfo, tokens)
}

// Profile fetches the Identify document.
func (c *Client) Profile(ctx context.Context, tokens TokenProvider) ([]byte, error) {
	return c.fetch(ctx, EndpointProfile, tokens)
}

// Document fetches the document that serves tier.
func (c *Client) Document(ctx context.Context, tier shared.Tier, tokens TokenProvider) ([]byte, error) {
	if !tier.IsValid() {
		return nil, NewFetchError(ErrorInternal, "", "cannot route tier", fmt.Errorf("%w: %q", shared.ErrUnknownTier, tier))
	}
	return c.fetch(ctx, EndpointFor(tier), tokens)
}

func (c *Client) fetch(ctx context.Context, endpoint Endpoint, tokens TokenProvider) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "bankid.fetch "+string(endpoint),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("bankid.endpoint", string(endpoint))),
	)
	defer span.End()

	body, err := c.do(ctx, endpoint, tokens, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(GetCategory(err)))
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint Endpoint, tokens TokenProvider, span trace.Span) ([]byte, error) {
	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, NewFetchError(ErrorAuthentication, endpoint, "bearer token unavailable", err)
	}

	target, err := url.JoinPath(c.baseURL, string(endpoint))
	if err != nil {
		return nil, NewFetchError(ErrorInternal, endpoint, "invalid base URL", err)
	}

	status, body, err := c.fetcher.Fetch(ctx, target, token)
	if errors.Is(err, ErrResponseTooLarge) {
		fe := NewFetchError(ErrorBadDocument, endpoint, "provider response rejected", err)
		fe.Status = status
		return nil, fe
	}
	if err != nil {
		return nil, transportError(endpoint, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if fe := statusError(endpoint, status); fe != nil {
		return nil, fe
	}
	return body, nil
}

func transportError(endpoint Endpoint, err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewFetchError(ErrorTimeout, endpoint, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewFetchError(ErrorInternal, endpoint, "request canceled", err)
	}
	return NewFetchError(ErrorProviderOutage, endpoint, "provider unreachable", errors.Join(sentinel.ErrUnavailable, err))
}

// statusError maps a non-2xx status onto the taxonomy; nil for success.
func statusError(endpoint Endpoint, status int) *FetchError {
	if status >= 200 && status < 300 {
		return nil
	}
	var fe *FetchError
	msg := fmt.Sprintf("unexpected status %d", status)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		fe = NewFetchError(ErrorAuthentication, endpoint, msg, nil)
	case status == http.StatusNotFound:
		fe = NewFetchError(ErrorNotFound, endpoint, msg, sentinel.ErrNotFound)
	case status == http.StatusTooManyRequests:
		fe = NewFetchError(ErrorRateLimited, endpoint, msg, nil)
	case status >= 500:
		fe = NewFetchError(ErrorProviderOutage, endpoint, msg, sentinel.ErrUnavailable)
	default:
		fe = NewFetchError(ErrorBadStatus, endpoint, msg, nil)
	}
	fe.Status = status
	return fe
}
