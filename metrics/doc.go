// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus instrumentation.

	m := metrics.New()
	mux.Handle("GET /metrics", m.Handler())

Collectors:

  - routeboard_http_requests_total{method, pattern, status}
  - routeboard_http_request_duration_seconds{method, pattern}
  - routeboard_event_subscribers
  - routeboard_events_published_total{kind}
  - routeboard_event_deliveries_total{kind}

*Metrics satisfies events.Observer, so the broadcaster reports subscriber
counts and deliveries directly.
*/
package metrics
