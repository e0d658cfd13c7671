package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InterviewsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_sessions_started_total",
		Help: "Interview sessions started",
	})

	InterviewsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_sessions_completed_total",
		Help: "Interview sessions completed with terminal feedback",
	})

	InterviewsAbandoned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_sessions_abandoned_total",
		Help: "Interview sessions abandoned before completion",
	})

	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_turns_total",
		Help: "Turn calls against the reasoning service by outcome",
	}, []string{"outcome"})

	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interview_turn_duration_seconds",
		Help:    "Latency of one turn against the reasoning service",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	RecordingUploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_recording_upload_failures_total",
		Help: "Recording uploads that failed and degraded the turn to text-only",
	})

	SessionWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_session_write_failures_total",
		Help: "Session record writes that failed against the record store",
	})
)
