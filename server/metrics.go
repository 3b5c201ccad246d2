// SPDX-License-Identifier: MIT

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	activities prometheus.Histogram
	traces     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "depmatrix_requests_total",
			Help: "Analysis requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "depmatrix_discovery_duration_seconds",
			Help:    "Matrix assembly duration by operation",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"operation"}),
		activities: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "depmatrix_matrix_activities",
			Help:    "Alphabet size of discovered matrices",
			Buckets: prometheus.ExponentialBuckets(2, 2, 10),
		}),
		traces: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "depmatrix_log_traces",
			Help:    "Number of traces per analysed log",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}
