package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of answer gateway calls by outcome",
		},
		[]string{"outcome"},
	)

	LLMRequestDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duration of answer gateway calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	HistoryEntriesAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_entries_appended_total",
			Help: "Total number of question/answer pairs persisted",
		},
	)

	HistoryPageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "history_page_size",
			Help:    "Number of history entries returned per page",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)
)
