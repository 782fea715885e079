// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package coordinator drives the queue-match lifecycle: admission to the
// waiting pool, match formation and team balancing, the match state machine,
// rating updates and re-admission after completion. Exactly one Coordinator
// exists per process; it is constructed explicitly and passed by reference to
// every consumer instead of living in a package-level singleton.
package coordinator

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/arenaworks/scrims/pkg/config"
	"github.com/arenaworks/scrims/pkg/constants"
	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/metrics"
	"github.com/arenaworks/scrims/pkg/notify"
	"github.com/arenaworks/scrims/pkg/queue"
	"github.com/arenaworks/scrims/pkg/storage"

	ulid "github.com/oklog/ulid/v2"
)

// DefaultPlayerRating is assigned when a player record is created on first
// queue join.
const DefaultPlayerRating = 1000

// Coordinator owns the match lifecycle and orchestrates the queue, the
// balancer, the rating engine, the store and the notifier.
type Coordinator struct {
	cfg      *config.Config
	store    storage.Store
	queue    *queue.QueueStore
	notifier notify.Notifier
	bus      *notify.EventBus
	metrics  metrics.CoordinatorMetrics

	// serializes match formation from explicit player lists, the
	// queue-driven path is serialized inside the queue store
	formMu sync.Mutex

	cleanupMu    sync.Mutex
	cleanups     map[string]*cleanupTask
	tickInterval time.Duration
}

// New wires a Coordinator from its collaborators. metrics may be nil.
func New(cfg *config.Config, store storage.Store, q *queue.QueueStore, notifier notify.Notifier, bus *notify.EventBus, m metrics.CoordinatorMetrics) *Coordinator {
	return &Coordinator{
		cfg:          cfg,
		store:        store,
		queue:        q,
		notifier:     notifier,
		bus:          bus,
		metrics:      m,
		cleanups:     make(map[string]*cleanupTask),
		tickInterval: constants.CleanupTickInterval,
	}
}

// SetTickInterval overrides the cleanup countdown granularity. Mostly useful
// for tests.
func (c *Coordinator) SetTickInterval(d time.Duration) {
	c.tickInterval = d
}

// Queue exposes the queue store for the command layer.
func (c *Coordinator) Queue() *queue.QueueStore {
	return c.queue
}

// Shutdown cancels every pending cleanup countdown.
func (c *Coordinator) Shutdown(scope *envelope.Scope) {
	c.cleanupMu.Lock()
	tasks := make([]*cleanupTask, 0, len(c.cleanups))
	for _, t := range c.cleanups {
		tasks = append(tasks, t)
	}
	c.cleanups = make(map[string]*cleanupTask)
	c.cleanupMu.Unlock()

	for _, t := range tasks {
		t.cancel()
	}
	scope.Log.WithField("cancelled", len(tasks)).Info("coordinator shut down")
}

func newMatchID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

func (c *Coordinator) publish(eventType string, payload map[string]interface{}) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(notify.Event{Type: eventType, Payload: payload})
}

func (c *Coordinator) observeQueueSize() {
	if c.metrics != nil {
		c.metrics.SetQueueSize(c.queue.Size())
	}
}

func (c *Coordinator) addElapsed(function string, start time.Time) {
	if c.metrics != nil {
		c.metrics.AddOperationElapsedTimeMs(function, time.Since(start))
	}
}
