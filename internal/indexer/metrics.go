package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opUpsert = "upsert"
	opRemove = "remove"

	resultOK      = "ok"
	resultFailed  = "failed"
	resultDropped = "dropped"
	resultRetried = "retried"
	resultSkipped = "skipped"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// newMetrics registers the synchronizer collectors on reg.
// A nil reg creates unregistered collectors.
func newMetrics(reg prometheus.Registerer, queueDepth func() float64) *metrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notegraph",
		Subsystem: "search_sync",
		Name:      "queue_depth",
		Help:      "Search index operations waiting for a worker.",
	}, queueDepth)

	return &metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notegraph",
			Subsystem: "search_sync",
			Name:      "operations_total",
			Help:      "Search index operations by kind and outcome.",
		}, []string{"op", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "notegraph",
			Subsystem: "search_sync",
			Name:      "attempt_duration_seconds",
			Help:      "Duration of single search index attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}
