// Package metrics holds the Prometheus collectors of the POS server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Sales           *prometheus.CounterVec
	SalesRejected   *prometheus.CounterVec
	RevenueCents    prometheus.Counter
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_total",
			Help: "Committed sales by payment method.",
		}, []string{"payment_method"}),
		SalesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_rejected_total",
			Help: "Sales rejected before commit, by reason.",
		}, []string{"reason"}),
		RevenueCents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sale_revenue_cents_total",
			Help: "Sum of committed sale totals in cents.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		m.Requests,
		m.RequestDuration,
		m.Sales,
		m.SalesRejected,
		m.RevenueCents,
	)
	return m
}
