package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics manages the Prometheus metrics. Each instance owns its registry
// so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	Predictions      *prometheus.CounterVec
	BatchRows        prometheus.Histogram
	SavedPredictions prometheus.Counter
	StatsRefreshes   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crime_insights_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"route", "method", "code"},
		),
		HTTPLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crime_insights_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crime_insights_predictions_total",
				Help: "Predictions produced, by scorer and risk level.",
			},
			[]string{"strategy", "risk_level"},
		),
		BatchRows: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "crime_insights_batch_rows",
			Help:    "Rows per uploaded batch.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		SavedPredictions: f.NewCounter(prometheus.CounterOpts{
			Name: "crime_insights_saved_predictions_total",
			Help: "Prediction logs written to the store.",
		}),
		StatsRefreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crime_insights_stats_refreshes_total",
				Help: "Scheduled stats refreshes by result.",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) RecordRequest(route, method string, code int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) RecordPrediction(strategy, risk string) {
	m.Predictions.WithLabelValues(strategy, risk).Inc()
}

func (m *Metrics) RecordBatch(rows int) {
	m.BatchRows.Observe(float64(rows))
}

func (m *Metrics) RecordSaved(n int) {
	m.SavedPredictions.Add(float64(n))
}

func (m *Metrics) RecordStatsRefresh(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StatsRefreshes.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
