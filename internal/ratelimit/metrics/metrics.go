package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejections *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_rejections_total",
			Help: "Requests rejected by the rate limiter, by route class",
		}, []string{"class"}),
	}
}

func (m *Metrics) IncrementRejections(class string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(class).Inc()
}
