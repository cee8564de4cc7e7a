// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server instance. Each instance owns
// its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Subscribers     prometheus.Gauge
	EventsPublished *prometheus.CounterVec
	EventDeliveries *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "routeboard_http_requests_total",
				Help: "Total HTTP requests by method, route pattern and status",
			},
			[]string{"method", "pattern", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "routeboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "pattern"},
		),
		Subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "routeboard_event_subscribers",
				Help: "Currently connected event stream listeners",
			},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "routeboard_events_published_total",
				Help: "Events published by kind",
			},
			[]string{"kind"},
		),
		EventDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "routeboard_event_deliveries_total",
				Help: "Event messages queued for listeners by kind",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.Subscribers,
		m.EventsPublished,
		m.EventDeliveries,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished request
func (m *Metrics) ObserveRequest(method, pattern string, status int, d time.Duration) {
	if pattern == "" {
		pattern = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, pattern, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, pattern).Observe(d.Seconds())
}

// SubscriberCount implements events.Observer
func (m *Metrics) SubscriberCount(n int) {
	m.Subscribers.Set(float64(n))
}

// Published implements events.Observer
func (m *Metrics) Published(kind string, delivered int) {
	m.EventsPublished.WithLabelValues(kind).Inc()
	m.EventDeliveries.WithLabelValues(kind).Add(float64(delivered))
}
