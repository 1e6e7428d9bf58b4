package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks outbound email delivery.
type Metrics struct {
	Sends        *prometheus.CounterVec
	SendDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Sends: f.NewCounterVec(prometheus.CounterOpts{
			Name: "notify_emails_total",
			Help: "Notification emails by transport and outcome",
		}, []string{"transport", "outcome"}),
		SendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notify_send_duration_seconds",
			Help:    "Duration of notification sends by transport",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"transport"}),
	}
}

// ObserveSend records one send attempt.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSend(transport string, err error, start time.Time) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.Sends.WithLabelValues(transport, outcome).Inc()
	m.SendDuration.WithLabelValues(transport).Observe(time.Since(start).Seconds())
}
