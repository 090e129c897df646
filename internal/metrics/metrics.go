// Package metrics exposes Prometheus instrumentation for enrollment.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "face_enroll_steps_total",
		Help: "Submitted enrollment steps by orientation and outcome",
	}, []string{"orientation", "outcome"}) // outcome=success|validation|capture|transport|timeout|service|internal

	submitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "face_enroll_submit_duration_seconds",
		Help:    "Round trip of one step submission to the enrollment service",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"outcome"})

	sequencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "face_enroll_sequences_total",
		Help: "Automatic capture sequences by result",
	}, []string{"result"}) // result=completed|aborted|stopped

	sequenceRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "face_enroll_sequence_running",
		Help: "Whether an automatic capture sequence is running (1) or not (0)",
	})
)

// RecordStep records the outcome of one submission.
func RecordStep(orientation, outcome string, elapsed time.Duration) {
	stepsTotal.WithLabelValues(orientation, outcome).Inc()
	submitDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// RecordSequence records how an automatic sequence ended.
func RecordSequence(result string) {
	sequencesTotal.WithLabelValues(result).Inc()
}

// SetRunning flags whether a sequence is in progress.
func SetRunning(running bool) {
	if running {
		sequenceRunning.Set(1)
		return
	}
	sequenceRunning.Set(0)
}
