/*
Package metrics exposes Prometheus collectors for the fee service.

COLLECTORS:
  latefee_quotes_total{kind}           quotes served, kind = final|estimate
  latefee_quote_amount                 histogram of quoted totals
  latefee_quote_errors_total{reason}   quotes rejected, by reason
  latefee_config_updates_total         configurations persisted
  latefee_http_requests_total{...}     requests by method, route, status
  latefee_http_request_duration_seconds

All collectors live on a private registry so tests and multiple servers in
one process do not collide on the default registerer.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Quote kinds.
const (
	KindFinal    = "final"
	KindEstimate = "estimate"
)

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	QuotesTotal     *prometheus.CounterVec
	QuoteAmount     prometheus.Histogram
	QuoteErrors     *prometheus.CounterVec
	ConfigUpdates   prometheus.Counter
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "latefee_quotes_total",
			Help: "Fee quotes served.",
		}, []string{"kind"}),
		QuoteAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "latefee_quote_amount",
			Help:    "Quoted fee totals in configured currency units.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		QuoteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "latefee_quote_errors_total",
			Help: "Fee quotes rejected.",
		}, []string{"reason"}),
		ConfigUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "latefee_config_updates_total",
			Help: "Fee configurations persisted.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "latefee_http_requests_total",
			Help: "HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "latefee_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.QuotesTotal,
		m.QuoteAmount,
		m.QuoteErrors,
		m.ConfigUpdates,
		m.RequestsTotal,
		m.RequestDuration,
	)
	return m
}

// ObserveQuote records a successful quote.
func (m *Metrics) ObserveQuote(total decimal.Decimal, estimate bool) {
	kind := KindFinal
	if estimate {
		kind = KindEstimate
	}
	m.QuotesTotal.WithLabelValues(kind).Inc()
	m.QuoteAmount.Observe(total.InexactFloat64())
}

// QuoteFailed records a rejected quote.
func (m *Metrics) QuoteFailed(reason string) {
	m.QuoteErrors.WithLabelValues(reason).Inc()
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
