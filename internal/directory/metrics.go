package directory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	adminBinds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golibadmin_directory_admin_binds_total",
		Help: "Administrative bind attempts by credential format and result",
	}, []string{"format", "result"})

	probeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "golibadmin_directory_unreachable_total",
		Help: "Times the directory could not be reached, discovery included",
	})
)
