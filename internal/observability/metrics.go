package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "created_total",
		Help:      "Number of workouts logged, by kind.",
	}, []string{"kind"})

	workoutsUpdated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "updated_total",
		Help:      "Number of workout edits, split by whether the kind changed.",
	}, []string{"kind_changed"})

	workoutsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "deleted_total",
		Help:      "Number of workouts deleted.",
	})

	workoutsCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "workouts",
		Name:      "current",
		Help:      "Number of workouts currently in the log.",
	})

	persistFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "failures_total",
		Help:      "Number of failed store operations, by operation.",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(workoutsCreated, workoutsUpdated, workoutsDeleted, workoutsCurrent, persistFailures)
}

// RecordCreated counts a new workout of the given kind.
func RecordCreated(kind string) {
	workoutsCreated.WithLabelValues(kind).Inc()
}

// RecordUpdated counts an edit.
func RecordUpdated(kindChanged bool) {
	label := "false"
	if kindChanged {
		label = "true"
	}
	workoutsUpdated.WithLabelValues(label).Inc()
}

// RecordDeleted counts a deleted workout.
func RecordDeleted() {
	workoutsDeleted.Inc()
}

// SetCurrent sets the size of the workout log.
func SetCurrent(n int) {
	workoutsCurrent.Set(float64(n))
}

// RecordPersistFailure counts a failed save, load or clear.
func RecordPersistFailure(op string) {
	persistFailures.WithLabelValues(op).Inc()
}
