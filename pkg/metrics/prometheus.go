package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PredictionsTotal *prometheus.CounterVec
	ScrapeSteps      *prometheus.CounterVec
	ScrapeDuration   prometheus.Histogram
	ComparisonsTotal *prometheus.CounterVec
	ErrorsCount      *prometheus.CounterVec
}

// NewMetrics registers the service metrics on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "The total number of delay predictions by outcome",
		}, []string{"status"}),
		ScrapeSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_steps_total",
			Help:      "Scraper step executions by step and outcome",
		}, []string{"step", "outcome"}),
		ScrapeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Wall time of a full scrape session",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60},
		}),
		ComparisonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Comparison requests by result",
		}, []string{"result"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// NewNopMetrics returns metrics bound to a private registry.
func NewNopMetrics() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}
