package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "employees",
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Total number of imported rows broken down by outcome.",
	}, []string{"outcome"})

	importBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "employees",
		Subsystem: "import",
		Name:      "batches_total",
		Help:      "Total number of import batches broken down by result.",
	}, []string{"result"})

	importDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "employees",
		Subsystem: "import",
		Name:      "duration_seconds",
		Help:      "Time spent importing a file, from first byte to persisted batch.",
		Buckets:   prometheus.DefBuckets,
	})

	employeeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "employees",
		Subsystem: "store",
		Name:      "mutations_total",
		Help:      "Total number of single-employee updates and deletes broken down by result.",
	}, []string{"op", "result"})
)

// Row outcomes.
const (
	outcomePersisted = "persisted"
	outcomeMalformed = "malformed"
	outcomeInvalid   = "invalid"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

func recordRows(outcome string, n int) {
	if n <= 0 {
		return
	}
	importRows.WithLabelValues(outcome).Add(float64(n))
}

func recordBatch(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	importBatches.WithLabelValues(result).Inc()
}

func recordImportDuration(start time.Time) {
	importDuration.Observe(time.Since(start).Seconds())
}

func recordMutation(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	employeeMutations.WithLabelValues(op, result).Inc()
}
