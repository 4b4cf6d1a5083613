package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evently_events_created_total",
		Help: "Total number of events created.",
	})

	EventsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evently_events_updated_total",
		Help: "Total number of events updated.",
	})

	EventsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evently_events_deleted_total",
		Help: "Total number of events deleted.",
	})

	EventSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evently_event_searches_total",
		Help: "Total number of event search queries served.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evently_http_requests_total",
		Help: "Total HTTP requests, labelled by method, route pattern, and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evently_http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds, labelled by route pattern.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"route"})
)
