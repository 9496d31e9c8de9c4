package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetricsRegistersLazily(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.IncCounter(FlushedEvents, 3, L("chain", "main"))
	m.IncCounter(FlushedEvents, 2, L("chain", "main"))
	m.SetGauge(BufferSize, 7)
	m.ObserveHistogram(FlushDuration, 0.25)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.counters[FlushedEvents].WithLabelValues("main")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.gauges[BufferSize].WithLabelValues()))
}

func TestPackageHelpersDefaultToNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Inc(EventsSubmitted, L("type", "authentication"))
		Observe(FlushDuration, 1)
		Set(BufferSize, 0)
	})
}
