package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric instruments
type Metrics struct {
	ScansTotal           *prometheus.CounterVec
	ScanDurationSeconds  prometheus.Histogram
	ScansInFlight        prometheus.Gauge
	ConflictsDetected    *prometheus.GaugeVec
	NetworksDiscovered   prometheus.Gauge
	ContainersDiscovered prometheus.Gauge
	AlertsSentTotal      *prometheus.CounterVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// NewMetrics registers and returns all metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "netscope_scans_total",
			Help: "Total number of topology scans",
		}, []string{"source", "status"}),

		ScanDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "netscope_scan_duration_seconds",
			Help:    "Duration of topology scans in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		ScansInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "netscope_scans_in_flight",
			Help: "Number of scans currently running",
		}),

		ConflictsDetected: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netscope_conflicts_detected",
			Help: "Conflicts found by the latest scan, by severity",
		}, []string{"severity"}),

		NetworksDiscovered: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "netscope_networks_discovered",
			Help: "Networks found by the latest scan",
		}),

		ContainersDiscovered: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "netscope_containers_discovered",
			Help: "Distinct containers found by the latest scan",
		}),

		AlertsSentTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "netscope_alerts_sent_total",
			Help: "Total alert notifications sent",
		}, []string{"backend", "status"}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "netscope_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netscope_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
		}, []string{"method", "path"}),
	}
}

// RecordScanStart increments the in-flight scans gauge
func (m *Metrics) RecordScanStart() {
	m.ScansInFlight.Inc()
}

// RecordScanEnd records scan completion
func (m *Metrics) RecordScanEnd(source, status string, duration float64) {
	m.ScansInFlight.Dec()
	m.ScansTotal.WithLabelValues(source, status).Inc()
	m.ScanDurationSeconds.Observe(duration)
}

// RecordReport publishes the latest report's headline numbers
func (m *Metrics) RecordReport(networks, containers, critical, high, warning int) {
	m.NetworksDiscovered.Set(float64(networks))
	m.ContainersDiscovered.Set(float64(containers))
	m.ConflictsDetected.WithLabelValues("critical").Set(float64(critical))
	m.ConflictsDetected.WithLabelValues("high").Set(float64(high))
	m.ConflictsDetected.WithLabelValues("warning").Set(float64(warning))
}

// RecordAlert records an alert dispatch attempt
func (m *Metrics) RecordAlert(backend, status string) {
	m.AlertsSentTotal.WithLabelValues(backend, status).Inc()
}
