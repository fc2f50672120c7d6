package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	FinalizeTotal       *prometheus.CounterVec
	FlowTransitions     *prometheus.CounterVec
	ReadRetriesTotal    *prometheus.CounterVec
}

// New регистрирует метрики в reg. Имя сервиса используется как namespace.
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		FinalizeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "booking_finalize_total",
				Help:      "Booking finalize attempts by payment method and result",
			},
			[]string{"method", "result"},
		),
		FlowTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "booking_flow_transitions_total",
				Help:      "Booking flow step transitions",
			},
			[]string{"from", "to"},
		),
		ReadRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "store_read_retries_total",
				Help:      "Retried store reads by operation",
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

func (m *Metrics) RecordFinalize(method, result string) {
	m.FinalizeTotal.WithLabelValues(method, result).Inc()
}

func (m *Metrics) RecordTransition(from, to string) {
	m.FlowTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordReadRetry(operation string) {
	m.ReadRetriesTotal.WithLabelValues(operation).Inc()
}
