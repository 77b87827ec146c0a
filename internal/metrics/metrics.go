package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AskOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ask_requests_total",
			Help: "Total number of /api/ask requests by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_upstream_duration_seconds",
			Help:    "Duration of chat-completion calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"status"},
	)

	SheetFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_fetches_total",
			Help: "Total number of spreadsheet preview fetches by result",
		},
		[]string{"source", "result"},
	)
)
