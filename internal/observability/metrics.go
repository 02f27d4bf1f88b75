package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK       = "ok"
	OutcomeMissing  = "missing"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

var (
	storageOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titanchat_storage_operations_total",
			Help: "Key/value storage operations by key and outcome.",
		},
		[]string{"op", "key", "outcome"},
	)
	bootstrapRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titanchat_bootstrap_runs_total",
			Help: "Bootstrap runs, labelled by whether the user collection was rewritten.",
		},
		[]string{"changed"},
	)
)

func init() {
	prometheus.MustRegister(
		storageOperationsTotal,
		bootstrapRunsTotal,
	)
}

func IncStorageOp(op, key, outcome string) {
	storageOperationsTotal.WithLabelValues(op, key, outcome).Inc()
}

func StorageOpCount(op, key, outcome string) prometheus.Counter {
	return storageOperationsTotal.WithLabelValues(op, key, outcome)
}

func IncBootstrapRun(changed bool) {
	BootstrapRunCount(changed).Inc()
}

func BootstrapRunCount(changed bool) prometheus.Counter {
	return bootstrapRunsTotal.WithLabelValues(strconv.FormatBool(changed))
}
