package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decode outcomes
const (
	OutcomeDecoded  = "decoded"
	OutcomeRejected = "rejected"
)

// Metrics provides observability for the claims module.
type Metrics struct {
	// Decode results by tier and outcome
	DecodeTotal *prometheus.CounterVec

	// Enum values that fell back to the unknown variant
	UnknownEnumTotal *prometheus.CounterVec

	// Provider fetch latencies by endpoint
	FetchLatency *prometheus.HistogramVec

	// 1 while the provider circuit is open
	ProviderCircuitOpen prometheus.Gauge
}

// New creates a new Metrics instance registered with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		DecodeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_decode_total",
			Help: "Total product decodes by tier and outcome",
		}, []string{"tier", "outcome"}),

		UnknownEnumTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_unknown_enum_total",
			Help: "Total enum values resolved to the unknown variant",
		}, []string{"enum"}), // enum: "gender", "marital_status", "address_type", "idcard_type", "trust_framework"

		FetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "claims_fetch_duration_seconds",
			Help:    "Duration of identity provider document fetches by endpoint",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}), // endpoint: "userinfo", "profile"

		ProviderCircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "claims_provider_circuit_open",
			Help: "Whether the identity provider circuit breaker is open (1) or closed (0)",
		}),
	}
}

// IncrementDecode records a decode outcome.
func (m *Metrics) IncrementDecode(tier, outcome string) {
	if m != nil {
		m.DecodeTotal.WithLabelValues(tier, outcome).Inc()
	}
}

// IncrementUnknownEnum records an enum value that matched no known variant.
func (m *Metrics) IncrementUnknownEnum(enum string) {
	if m != nil {
		m.UnknownEnumTotal.WithLabelValues(enum).Inc()
	}
}

// ObserveFetchLatency records the duration of a provider fetch.
func (m *Metrics) ObserveFetchLatency(endpoint string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

// SetProviderCircuit records the provider circuit state.
func (m *Metrics) SetProviderCircuit(open bool) {
	if m == nil {
		return
	}
	if open {
		m.ProviderCircuitOpen.Set(1)
		return
	}
	m.ProviderCircuitOpen.Set(0)
}
