package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of the tracking engine, the site fetcher and
// tracking admission. A nil *Metrics records nothing.
type Metrics struct {
	Checks        *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Admissions    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	DueBatch      prometheus.Gauge
}

func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_checks_total",
			Help:      "Processed tracking checks by result",
		}, []string{"result"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications handed to the chat transport",
		}, []string{"kind", "status"}),
		Admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_admissions_total",
			Help:      "Start tracking requests by outcome",
		}, []string{"outcome"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "site_fetch_duration_seconds",
			Help:      "Time spent fetching route pages, retries included",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"status"}),
		DueBatch: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "due_batch_size",
			Help:      "Entries claimed by the last scheduler pass",
		}),
	}
}

func (m *Metrics) CheckDone(result string) {
	if m == nil {
		return
	}
	m.Checks.WithLabelValues(result).Inc()
}

func (m *Metrics) NotificationDone(kind string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.Notifications.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) AdmissionDone(outcome string) {
	if m == nil {
		return
	}
	m.Admissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FetchDone(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.FetchDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (m *Metrics) BatchClaimed(size int) {
	if m == nil {
		return
	}
	m.DueBatch.Set(float64(size))
}
