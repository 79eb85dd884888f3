// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics registers the Prometheus instruments of the recommender.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchDuration measures orchestrator latency by mode
	// ("ranked" with a query, "browse" without).
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "risda_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risda_search_results",
			Help:    "Number of records in a search result before pagination",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// LabelParseFallbacks counts label fields that did not parse as a list.
	LabelParseFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "risda_label_parse_fallbacks_total",
			Help: "Label fields degraded to a single raw label",
		},
	)

	IndexedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "risda_indexed_records",
			Help: "Records in the current search snapshot",
		},
	)

	IndexRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risda_index_rebuild_duration_seconds",
			Help:    "Duration of snapshot rebuilds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// IngestRecords counts ingested records by outcome (added, updated,
	// deleted, restored, failed).
	IngestRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risda_ingest_records_total",
			Help: "Records processed by the ingest service",
		},
		[]string{"outcome"},
	)

	Submissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "risda_problem_submissions_total",
			Help: "Problem descriptions submitted for recommendation",
		},
	)
)

// HTTPRequests counts API requests by method, route pattern and status.
var HTTPRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "risda_http_requests_total",
		Help: "HTTP requests served by the API",
	},
	[]string{"method", "route", "status"},
)
