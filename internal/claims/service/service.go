// Package service is the application layer of the claims module. It fetches
// identity documents through a DocumentSource and decodes them into products,
// recording metrics and traces along the way.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"bankid/internal/claims/client"
	"bankid/internal/claims/decoder"
	"bankid/internal/claims/domain/product"
	"bankid/internal/claims/domain/shared"
	"bankid/internal/claims/metrics"
	"bankid/pkg/platform/circuit"
	"bankid/pkg/requestcontext"
)

const (
	tracerName          = "bankid/internal/claims/service"
	defaultFetchTimeout = 10 * time.Second
)

// DocumentSource fetches the raw document that serves a tier.
type DocumentSource interface {
	Document(ctx context.Context, tier shared.Tier, tokens client.TokenProvider) ([]byte, error)
}

// Bundle pairs the Connect product with the product of the requested tier.
// For the Connect tier both fields hold the same product.
type Bundle struct {
	Connect product.Connect `json:"connect"`
	Product product.Product `json:"product"`
}

// Service decodes and fetches identity products.
type Service struct {
	source       DocumentSource
	decoder      *decoder.Decoder
	metrics      *metrics.Metrics
	logger       *slog.Logger
	tracer       trace.Tracer
	breaker      *circuit.Breaker
	fetchTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger; the decoder logs through it as well.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithBreaker sets the breaker that tracks provider health.
func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

// WithFetchTimeout bounds each provider fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// New creates a Service. source may be nil when only Decode is used.
func New(source DocumentSource, opts ...Option) *Service {
	s := &Service{
		source:       source,
		logger:       slog.New(slog.DiscardHandler),
		tracer:       otel.Tracer(tracerName),
		breaker:      circuit.New("bankid_provider"),
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.decoder = decoder.New(
		decoder.WithLogger(s.logger),
		decoder.WithNoticeHook(func(n decoder.Notice) {
			s.metrics.IncrementUnknownEnum(n.Enum)
		}),
	)
	return s
}

// Decode decodes an already fetched document as the given tier.
func (s *Service) Decode(ctx context.Context, tier shared.Tier, body []byte) (product.Product, error) {
	_, span := s.tracer.Start(ctx, "claims.decode",
		trace.WithAttributes(attribute.String("bankid.tier", string(tier))),
	)
	defer span.End()

	p, err := s.decoder.Decode(tier, body)
	if err != nil {
		category := decoder.GetCategory(err)
		s.metrics.IncrementDecode(tierLabel(tier), metrics.OutcomeRejected)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(category))
		s.logger.WarnContext(ctx, "claims document rejected",
			"request_id", requestcontext.RequestID(ctx),
			"tier", tier,
			"category", category,
			"error", err,
		)
		return nil, err
	}

	s.metrics.IncrementDecode(string(p.Tier()), metrics.OutcomeDecoded)
	s.logger.DebugContext(ctx, "claims document decoded",
		"request_id", requestcontext.RequestID(ctx),
		"tier", p.Tier(),
		"txn", p.TransactionID(),
	)
	return p, nil
}

// Fetch retrieves the tier's document from the provider and decodes it.
// A document that fails to decode is returned as a *client.FetchError of
// category bad_document wrapping the *decoder.DecodeError.
func (s *Service) Fetch(ctx context.Context, tier shared.Tier, tokens client.TokenProvider) (product.Product, error) {
	t, err := shared.ParseTier(string(tier))
	if err != nil {
		return nil, err
	}
	if s.source == nil {
		return nil, fmt.Errorf("fetch %s: no document source configured", t)
	}

	ctx, span := s.tracer.Start(ctx, "claims.fetch",
		trace.WithAttributes(attribute.String("bankid.tier", string(t))),
	)
	defer span.End()

	body, err := s.fetchDocument(ctx, t, tokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(client.GetCategory(err)))
		s.logger.ErrorContext(ctx, "claims document fetch failed",
			"request_id", requestcontext.RequestID(ctx),
			"tier", t,
			"category", client.GetCategory(err),
			"retryable", client.IsRetryable(err),
			"error", err,
		)
		return nil, err
	}

	p, err := s.Decode(ctx, t, body)
	if err != nil {
		return nil, client.NewFetchError(client.ErrorBadDocument, client.EndpointFor(t), "provider document rejected", err)
	}
	return p, nil
}

func (s *Service) fetchDocument(ctx context.Context, tier shared.Tier, tokens client.TokenProvider) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	body, err := s.source.Document(ctx, tier, tokens)
	s.metrics.ObserveFetchLatency(string(client.EndpointFor(tier)), time.Since(start))
	s.recordProviderHealth(ctx, err)
	return body, err
}

// recordProviderHealth feeds the breaker. Only retryable failures count
// against the provider; a rejected token says nothing about its health.
func (s *Service) recordProviderHealth(ctx context.Context, err error) {
	change := s.breaker.Observe(err, client.IsRetryable)
	if change.Opened {
		s.metrics.SetProviderCircuit(true)
		s.logger.WarnContext(ctx, "provider circuit opened",
			"request_id", requestcontext.RequestID(ctx),
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	if change.Closed {
		s.metrics.SetProviderCircuit(false)
		s.logger.InfoContext(ctx, "provider circuit closed",
			"request_id", requestcontext.RequestID(ctx),
			"breaker", s.breaker.Name(),
		)
	}
}

// ProviderState reports whether recent provider fetches have been failing.
func (s *Service) ProviderState() circuit.State {
	return s.breaker.State()
}

// FetchBundle retrieves the Connect product and the tier's product
// concurrently. The first failure cancels the other fetch.
func (s *Service) FetchBundle(ctx context.Context, tier shared.Tier, tokens client.TokenProvider) (*Bundle, error) {
	t, err := shared.ParseTier(string(tier))
	if err != nil {
		return nil, err
	}

	if t == shared.TierConnect {
		p, err := s.Fetch(ctx, t, tokens)
		if err != nil {
			return nil, err
		}
		connect := p.(product.Connect)
		return &Bundle{Connect: connect, Product: connect}, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	bundle := &Bundle{}

	g.Go(func() error {
		p, err := s.Fetch(ctx, shared.TierConnect, tokens)
		if err != nil {
			return err
		}
		bundle.Connect = p.(product.Connect)
		return nil
	})

	g.Go(func() error {
		p, err := s.Fetch(ctx, t, tokens)
		if err != nil {
			return err
		}
		bundle.Product = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// tierLabel keeps metric label cardinality bounded for unparseable selectors.
func tierLabel(tier shared.Tier) string {
	t, err := shared.ParseTier(string(tier))
	if err != nil {
		return "invalid"
	}
	return string(t)
}
