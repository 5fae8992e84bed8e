package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

// Metrics exports poller and exporter telemetry to Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	recordsTotal     *prometheus.CounterVec
	errorRecords     *prometheus.CounterVec
	pollDuration     prometheus.Histogram
	sinkItemsTotal   *prometheus.CounterVec
	sinkErrorsTotal  *prometheus.CounterVec
	sinkWriteSeconds *prometheus.HistogramVec
	queueLength      prometheus.Gauge
}

// New registers the exporter metrics on reg. A nil reg uses the default
// registerer.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "oura_exporter"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records produced by the poller by kind.",
		}, []string{"kind"}),
		errorRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "error_records_total",
			Help:      "Error records produced by the poller by category.",
		}, []string{"category"}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of one poll cycle over all persons.",
			Buckets:   prometheus.DefBuckets,
		}),
		sinkItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_items_total",
			Help:      "Export items handed to a sink.",
		}, []string{"sink"}),
		sinkErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed sink batch writes.",
		}, []string{"sink"}),
		sinkWriteSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sink_write_duration_seconds",
			Help:      "Latency of one sink batch write.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Record chunks waiting for export.",
		}),
	}

	collectors := []prometheus.Collector{
		m.recordsTotal, m.errorRecords, m.pollDuration,
		m.sinkItemsTotal, m.sinkErrorsTotal, m.sinkWriteSeconds, m.queueLength,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRecords(records []models.Record) {
	if m == nil {
		return
	}
	for _, r := range records {
		m.recordsTotal.WithLabelValues(r.Kind.String()).Inc()
		if r.Kind == models.KindError {
			m.errorRecords.WithLabelValues(string(r.Error.Category)).Inc()
		}
	}
}

func (m *Metrics) ObservePoll(duration time.Duration) {
	if m == nil {
		return
	}
	m.pollDuration.Observe(duration.Seconds())
}

// ObserveSinkWrite records one batch write of n items to sink.
func (m *Metrics) ObserveSinkWrite(sink string, n int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.sinkWriteSeconds.WithLabelValues(sink).Observe(duration.Seconds())
	if err != nil {
		m.sinkErrorsTotal.WithLabelValues(sink).Inc()
		return
	}
	m.sinkItemsTotal.WithLabelValues(sink).Add(float64(n))
}

func (m *Metrics) SetQueueLength(n int) {
	if m == nil {
		return
	}
	m.queueLength.Set(float64(n))
}
