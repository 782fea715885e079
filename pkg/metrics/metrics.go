// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type CoordinatorMetrics interface {
	SetQueueSize(size int)
	AddMatchCreated()
	AddMatchCompleted(duration time.Duration)
	AddMatchCancelled(reason string)
	AddOperationElapsedTimeMs(function string, elapsedTime time.Duration)
	AddRequeueFailure(reason string)
}

func NewMetrics(registry *prometheus.Registry) CoordinatorMetrics {
	return setupPrometheusMetrics(registry)
}
