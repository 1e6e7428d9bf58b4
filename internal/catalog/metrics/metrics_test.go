package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSeed(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSeed(OutcomeSeeded, 6)
	m.ObserveSeed(OutcomePopulated, 0)
	m.ObserveSeed(OutcomePopulated, 0)

	assert.Equal(t, 6.0, testutil.ToFloat64(m.SeededItems))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeedRuns.WithLabelValues(OutcomeSeeded)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SeedRuns.WithLabelValues(OutcomePopulated)))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSeed(OutcomeFailed, 0)
		m.ObserveLookup("list", time.Now())
	})
}
