package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammad-safakhou/computesales/internal/record"
)

// Metrics counts what a run did. The registry is private so a run's numbers
// never mix with process-wide collectors.
type Metrics struct {
	registry        *prometheus.Registry
	records         *prometheus.CounterVec
	documentsFailed *prometheus.CounterVec
	joinMisses      prometheus.Counter
	total           prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "computesales_records_total",
			Help: "Input records by document and validation outcome.",
		}, []string{"document", "outcome"}),
		documentsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "computesales_documents_failed_total",
			Help: "Documents that could not be used, by reason.",
		}, []string{"document", "reason"}),
		joinMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "computesales_join_misses_total",
			Help: "Sales whose product is not in the catalog.",
		}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "computesales_total_sales",
			Help: "Total sales of the last completed run.",
		}),
	}
	m.registry.MustRegister(m.records, m.documentsFailed, m.joinMisses, m.total)
	return m
}

// ObserveDocument records a validator summary for document ("catalog" or "sales").
func (m *Metrics) ObserveDocument(document string, s record.Summary) {
	if s.Malformed {
		m.documentsFailed.WithLabelValues(document, "malformed").Inc()
		return
	}
	m.records.WithLabelValues(document, "accepted").Add(float64(s.Accepted))
	m.records.WithLabelValues(document, "rejected").Add(float64(s.Rejected))
}

// DocumentFailed records a load failure.
func (m *Metrics) DocumentFailed(document, reason string) {
	m.documentsFailed.WithLabelValues(document, reason).Inc()
}

// ObserveTotal records the aggregation result.
func (m *Metrics) ObserveTotal(total float64, misses int) {
	m.joinMisses.Add(float64(misses))
	m.total.Set(total)
}

// WriteTextfile writes the metrics in Prometheus text format, e.g. for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
