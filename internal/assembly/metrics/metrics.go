package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PayloadsAssembled    *prometheus.CounterVec
	AssemblyFailures     *prometheus.CounterVec
	ArticlesDroppedAtCap prometheus.Counter
	AssemblyDuration     prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		PayloadsAssembled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "paybridge_payloads_assembled_total",
			Help: "Total number of gateway payloads assembled",
		}, []string{"kind"}),
		AssemblyFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "paybridge_assembly_failures_total",
			Help: "Total number of failed assembly attempts",
		}, []string{"kind", "code"}),
		ArticlesDroppedAtCap: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paybridge_articles_dropped_at_cap_total",
			Help: "Total number of cart items silently dropped at the article cap",
		}),
		AssemblyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "paybridge_assembly_duration_seconds",
			Help:    "Latency of payload assembly",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementAssembled(kind string) {
	m.PayloadsAssembled.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementFailures(kind, code string) {
	m.AssemblyFailures.WithLabelValues(kind, code).Inc()
}

func (m *Metrics) AddArticlesDropped(count int) {
	m.ArticlesDroppedAtCap.Add(float64(count))
}

func (m *Metrics) ObserveAssemblyDuration(seconds float64) {
	m.AssemblyDuration.Observe(seconds)
}
