package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scrape pipeline.
type Metrics struct {
	ScrapeRunning  prometheus.Gauge
	ScrapeDuration prometheus.Histogram

	// Portal request metrics.
	PortalRequests        *prometheus.CounterVec   // labels: endpoint={cities,districts}, outcome={success,error}
	PortalRequestDuration *prometheus.HistogramVec // labels: endpoint

	// Record metrics.
	RecordsScraped   *prometheus.CounterVec // labels: level={region,city,district}
	CitiesSkipped    prometheus.Counter
	DistrictsDropped prometheus.Counter

	// Export metrics.
	ExportDuration *prometheus.HistogramVec // labels: target={snapshot,workbook}
}

// NewMetrics creates and registers all scrape metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScrapeRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spl_areas",
			Name:      "scrape_running",
			Help:      "1 while a scrape run is in progress, 0 otherwise.",
		}),
		ScrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spl_areas",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a complete scrape-and-export run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		PortalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spl_areas",
			Name:      "portal_requests_total",
			Help:      "Portal API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		PortalRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spl_areas",
			Name:      "portal_request_duration_seconds",
			Help:      "Portal API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		RecordsScraped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spl_areas",
			Name:      "records_scraped_total",
			Help:      "Records accepted into the snapshot by hierarchy level.",
		}, []string{"level"}),
		CitiesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spl_areas",
			Name:      "cities_skipped_total",
			Help:      "Cities dropped because they reference an unknown region.",
		}),
		DistrictsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spl_areas",
			Name:      "districts_dropped_total",
			Help:      "Districts dropped because their city reference contradicts the request.",
		}),
		ExportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spl_areas",
			Name:      "export_duration_seconds",
			Help:      "Duration of each export by target file type.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"target"}),
	}

	prometheus.MustRegister(
		m.ScrapeRunning,
		m.ScrapeDuration,
		m.PortalRequests,
		m.PortalRequestDuration,
		m.RecordsScraped,
		m.CitiesSkipped,
		m.DistrictsDropped,
		m.ExportDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ScrapeRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "spl_areas", Name: "scrape_running"}),
		ScrapeDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "spl_areas", Name: "scrape_duration_seconds"}),
		PortalRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "spl_areas", Name: "portal_requests_total"}, []string{"endpoint", "outcome"}),
		PortalRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "spl_areas", Name: "portal_request_duration_seconds"}, []string{"endpoint"}),
		RecordsScraped:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "spl_areas", Name: "records_scraped_total"}, []string{"level"}),
		CitiesSkipped:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spl_areas", Name: "cities_skipped_total"}),
		DistrictsDropped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spl_areas", Name: "districts_dropped_total"}),
		ExportDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "spl_areas", Name: "export_duration_seconds"}, []string{"target"}),
	}
}
