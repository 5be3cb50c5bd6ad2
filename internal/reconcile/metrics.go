package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golibadmin_sync_runs_total",
		Help: "Full directory sync runs by result",
	}, []string{"result"})

	syncEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golibadmin_sync_entries_total",
		Help: "Directory entries processed by full sync, by outcome",
	}, []string{"outcome"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "golibadmin_sync_duration_seconds",
		Help:    "Duration of full directory sync runs",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

func observe(o Outcome) {
	switch {
	case o.Err != nil:
		syncEntries.WithLabelValues("error").Inc()
	case o.Created:
		syncEntries.WithLabelValues("created").Inc()
	default:
		syncEntries.WithLabelValues("updated").Inc()
	}
}
