// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	queueSize        prometheus.Gauge
	matchesCreated   prometheus.Counter
	matchesCompleted prometheus.Counter
	matchDuration    prometheus.Histogram
	matchesCancelled prometheus.CounterVec
	operationElapsed prometheus.HistogramVec
	requeueFailures  prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	queueSize := factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "aw_scrims_queue_size",
			Help: "Number of players currently waiting in the queue",
		})

	matchesCreated := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "aw_scrims_matches_created_total",
			Help: "Total number of matches created",
		})

	matchesCompleted := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "aw_scrims_matches_completed_total",
			Help: "Total number of matches completed with a recorded outcome",
		})

	//nolint:promlinter
	matchDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aw_scrims_match_duration_seconds",
			Help:    "A histogram of completed match durations in seconds",
			Buckets: prometheus.ExponentialBuckets(60, 2, 8),
		})

	matchesCancelled := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aw_scrims_matches_cancelled_total",
			Help: "Total number of cancelled matches by reason",
		}, []string{"reason"})

	//nolint:promlinter
	operationElapsed := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aw_scrims_operation_elapsed_time_ms",
			Help:    "A histogram of coordinator operation elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"function"})

	requeueFailures := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aw_scrims_requeue_failures_total",
			Help: "Total number of failed post-match re-queue attempts by reason",
		}, []string{"reason"})

	return prometheusMetrics{
		queueSize:        queueSize,
		matchesCreated:   matchesCreated,
		matchesCompleted: matchesCompleted,
		matchDuration:    matchDuration,
		matchesCancelled: *matchesCancelled,
		operationElapsed: *operationElapsed,
		requeueFailures:  *requeueFailures,
	}
}

func (metrics prometheusMetrics) SetQueueSize(size int) {
	metrics.queueSize.Set(float64(size))
}

func (metrics prometheusMetrics) AddMatchCreated() {
	metrics.matchesCreated.Add(1)
}

func (metrics prometheusMetrics) AddMatchCompleted(duration time.Duration) {
	metrics.matchesCompleted.Add(1)
	metrics.matchDuration.Observe(duration.Seconds())
}

func (metrics prometheusMetrics) AddMatchCancelled(reason string) {
	metrics.matchesCancelled.With(prometheus.Labels{"reason": reason}).Add(1)
}

func (metrics prometheusMetrics) AddOperationElapsedTimeMs(function string, elapsedTime time.Duration) {
	metrics.operationElapsed.With(prometheus.Labels{"function": function}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) AddRequeueFailure(reason string) {
	metrics.requeueFailures.With(prometheus.Labels{"reason": reason}).Add(1)
}
