// Package metrics exposes the engine's Prometheus instrumentation.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ire"

// Metrics holds the collectors of one engine instance.
type Metrics struct {
	documentsIndexed   prometheus.Counter
	vocabularySize     prometheus.Gauge
	indexBuildDuration prometheus.Histogram

	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchResults  *prometheus.HistogramVec

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		documentsIndexed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_indexed_total",
			Help:      "Total number of documents indexed",
		}),
		vocabularySize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_size",
			Help:      "Number of distinct terms in the index",
		}),
		indexBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Index build duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		searchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of searches",
		}, []string{"method", "status"}),
		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method"}),
		searchResults: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
		}, []string{"method"}),
		evaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of evaluation runs",
		}, []string{"status"}),
		evaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Evaluation run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "path", "status"}),
	}
}

// ObserveIndexBuild records a finished index build.
func (m *Metrics) ObserveIndexBuild(docs, vocabulary int, took time.Duration) {
	if m == nil {
		return
	}
	m.documentsIndexed.Add(float64(docs))
	m.vocabularySize.Set(float64(vocabulary))
	m.indexBuildDuration.Observe(took.Seconds())
}

// ObserveSearch records a search. A failed search only counts towards searches_total.
func (m *Metrics) ObserveSearch(method string, results int, took time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.searchesTotal.WithLabelValues(method, "error").Inc()
		return
	}
	m.searchesTotal.WithLabelValues(method, "ok").Inc()
	m.searchDuration.WithLabelValues(method).Observe(took.Seconds())
	m.searchResults.WithLabelValues(method).Observe(float64(results))
}

// ObserveEvaluation records a finished evaluation run.
func (m *Metrics) ObserveEvaluation(took time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.evaluationsTotal.WithLabelValues(status).Inc()
	m.evaluationDuration.Observe(took.Seconds())
}

func (m *Metrics) observeHTTP(method, path, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(took.Seconds())
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}
