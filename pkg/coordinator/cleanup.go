// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package coordinator

import (
	"fmt"
	"sync"
	"time"

	"github.com/arenaworks/scrims/pkg/constants"
	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/notify"
)

// cleanupTask is one deferred post-match countdown. It holds no locks for its
// duration and is cancellable only through Shutdown.
type cleanupTask struct {
	matchID string
	stop    chan struct{}
	once    sync.Once
	done    chan struct{}
}

func (t *cleanupTask) cancel() {
	t.once.Do(func() { close(t.stop) })
}

// scheduleCleanup starts the countdown-then-cleanup task for a finished
// match: countdown messages on every tick, then player re-admission, then
// channel teardown. Re-admission runs regardless of channel state; channel
// deletion is fire-and-forget relative to it.
func (c *Coordinator) scheduleCleanup(scope *envelope.Scope, matchID string, requeueIDs []string, ref notify.ChannelRef, hasChannel bool, deleteChannel bool) {
	task := &cleanupTask{
		matchID: matchID,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	c.cleanupMu.Lock()
	if existing, ok := c.cleanups[matchID]; ok {
		// superseded by a newer lifecycle event for the same match
		existing.cancel()
	}
	c.cleanups[matchID] = task
	c.cleanupMu.Unlock()

	cleanupScope := envelope.ChildScopeFromRemoteScope(scope.Ctx, "Coordinator.cleanup")

	go func() {
		defer close(task.done)
		defer cleanupScope.Finish()
		defer func() {
			c.cleanupMu.Lock()
			if c.cleanups[matchID] == task {
				delete(c.cleanups, matchID)
			}
			c.cleanupMu.Unlock()
		}()

		ticker := time.NewTicker(c.tickInterval)
		defer ticker.Stop()

		for remaining := c.cfg.CleanupCountdownTicks; remaining > 0; remaining-- {
			if hasChannel {
				msg := fmt.Sprintf("channel closes in %d...", remaining)
				if err := c.notifier.SendMessage(cleanupScope, ref, msg); err != nil {
					cleanupScope.Log.WithField("matchID", matchID).Debugf("countdown message failed: %s", err)
				}
			}
			select {
			case <-ticker.C:
			case <-task.stop:
				cleanupScope.Log.WithField("matchID", matchID).Info("cleanup cancelled by shutdown")
				return
			}
		}

		// re-admission first, channel teardown must never gate it
		c.requeuePlayers(cleanupScope, requeueIDs)
		if len(requeueIDs) > 0 {
			if _, formed := c.TryFormMatch(cleanupScope); formed {
				cleanupScope.Log.WithField("matchID", matchID).Debug("follow-up match formed after cleanup")
			}
		}

		if deleteChannel && hasChannel {
			if err := c.notifier.DeleteChannel(cleanupScope, ref); err != nil {
				cleanupScope.Log.WithField("matchID", matchID).Errorf("channel deletion failed: %s", err)
			}
		}
	}()
}

// WaitForCleanup blocks until the cleanup task of the match finished or was
// never scheduled. Used by tests and graceful drains.
func (c *Coordinator) WaitForCleanup(matchID string) {
	c.cleanupMu.Lock()
	task, ok := c.cleanups[matchID]
	c.cleanupMu.Unlock()
	if !ok {
		return
	}
	<-task.done
}

// requeuePlayers returns players to the waiting pool after a finished match.
// Every id is marked as processing before the first insert and unmarked on
// all exit paths, so a concurrent formation pass can never select a player
// who is mid-transition. Failures are logged per player and never abort the
// remaining re-admissions.
func (c *Coordinator) requeuePlayers(scope *envelope.Scope, playerIDs []string) {
	if len(playerIDs) == 0 {
		return
	}

	c.queue.MarkProcessing(playerIDs...)
	defer c.queue.UnmarkProcessing(playerIDs...)

	for _, id := range playerIDs {
		p, err := c.store.GetPlayer(scope.Ctx, id)
		if err == nil && !p.Active {
			scope.Log.WithField("playerID", id).Debug("skipping re-queue of inactive player")
			c.addRequeueFailure(constants.RequeueReasonPlayerInactive)
			continue
		}

		err = c.queue.Enqueue(scope, id)
		switch err {
		case nil:
		case models.ValidationErrorAlreadyQueued:
			c.addRequeueFailure(constants.RequeueReasonAlreadyQueued)
		case models.ValidationErrorAlreadyInMatch:
			c.addRequeueFailure(constants.RequeueReasonAlreadyInMatch)
		default:
			// one best-effort retry, then give up loudly
			if retryErr := c.queue.Enqueue(scope, id); retryErr != nil {
				scope.Log.WithField("playerID", id).Errorf("re-queue failed: %s", retryErr)
				c.addRequeueFailure(constants.RequeueReasonStoreUnavailable)
			}
		}
	}

	c.observeQueueSize()
	c.publish(notify.EventQueueUpdated, map[string]interface{}{"size": c.queue.Size()})
}

func (c *Coordinator) addRequeueFailure(reason string) {
	if c.metrics != nil {
		c.metrics.AddRequeueFailure(reason)
	}
}
