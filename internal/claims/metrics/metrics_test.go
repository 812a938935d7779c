package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementDecode("connect", OutcomeDecoded)
	m.IncrementDecode("connect", OutcomeDecoded)
	m.IncrementDecode("identify_aml", OutcomeRejected)
	m.IncrementUnknownEnum("gender")
	m.ObserveFetchLatency("profile", 120*time.Millisecond)
	m.SetProviderCircuit(true)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			for _, label := range metric.GetLabel() {
				key += "/" + label.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				values[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[key] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				values[key] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 2.0, values["claims_decode_total/decoded/connect"])
	assert.Equal(t, 1.0, values["claims_decode_total/rejected/identify_aml"])
	assert.Equal(t, 1.0, values["claims_unknown_enum_total/gender"])
	assert.Equal(t, 1.0, values["claims_fetch_duration_seconds/profile"])
	assert.Equal(t, 1.0, values["claims_provider_circuit_open"])
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementDecode("connect", OutcomeDecoded)
		m.IncrementUnknownEnum("gender")
		m.ObserveFetchLatency("userinfo", time.Second)
		m.SetProviderCircuit(false)
	})
}
