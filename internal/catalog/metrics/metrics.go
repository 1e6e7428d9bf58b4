package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Seed run outcomes.
const (
	OutcomeSeeded    = "seeded"
	OutcomePopulated = "populated"
	OutcomeLocked    = "locked"
	OutcomeFailed    = "failed"
)

// Metrics provides observability for the catalog module.
// Tracks seeding results and read path durations.
type Metrics struct {
	SeededItems    prometheus.Counter
	SeedRuns       *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
}

// New creates a new Metrics instance with all catalog metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SeededItems: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_seeded_items_total",
			Help: "Total number of catalog items inserted by the seeder",
		}),
		SeedRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_seed_runs_total",
			Help: "Seeder runs by outcome",
		}, []string{"outcome"}),
		LookupDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_lookup_duration_seconds",
			Help:    "Duration of catalog store reads by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// ObserveSeed records one seeder run and the number of items it inserted.
func (m *Metrics) ObserveSeed(outcome string, inserted int) {
	if m == nil {
		return
	}
	m.SeedRuns.WithLabelValues(outcome).Inc()
	if inserted > 0 {
		m.SeededItems.Add(float64(inserted))
	}
}

// ObserveLookup records the duration of a store read.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLookup(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.LookupDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
