// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package coordinator

import (
	"time"

	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/notify"
	"github.com/arenaworks/scrims/pkg/storage"
)

// EnqueuePlayer admits a player to the waiting pool, creating the player
// record on first join, then runs a formation pass if the threshold is met.
func (c *Coordinator) EnqueuePlayer(rootScope *envelope.Scope, playerID string, displayName string) (OperationResult, error) {
	scope := rootScope.NewChildScope("Coordinator.EnqueuePlayer")
	defer scope.Finish()
	scope.SetAttributes(envelope.PlayerIDTag, playerID)

	if _, err := c.store.GetPlayer(scope.Ctx, playerID); err == storage.ErrNotFound {
		p := &models.Player{
			ID:          playerID,
			DisplayName: displayName,
			Rating:      DefaultPlayerRating,
			Active:      true,
		}
		if err := c.store.UpsertPlayer(scope.Ctx, p); err != nil {
			return failureResult("failed to create player"), err
		}
		scope.Log.WithField("playerID", playerID).Info("player created on first queue join")
	} else if err != nil {
		return failureResult("failed to load player"), err
	}

	if err := c.queue.Enqueue(scope, playerID); err != nil {
		if models.IsValidationError(err) {
			return failureResult(err.Error()), nil
		}
		return failureResult("failed to join queue"), err
	}

	c.observeQueueSize()
	c.publish(notify.EventQueueUpdated, map[string]interface{}{"size": c.queue.Size()})

	if result, formed := c.TryFormMatch(scope); formed {
		if result.Success {
			return result, nil
		}
		// the join itself succeeded, an aborted formation pass only means
		// the player keeps waiting
		scope.Log.WithField("playerID", playerID).Warnf("formation pass aborted after join: %s", result.Message)
	}
	return successResult("joined the queue"), nil
}

// DequeuePlayer removes a player from the waiting pool. Idempotent.
func (c *Coordinator) DequeuePlayer(rootScope *envelope.Scope, playerID string) OperationResult {
	scope := rootScope.NewChildScope("Coordinator.DequeuePlayer")
	defer scope.Finish()

	removed := c.queue.Dequeue(scope, playerID)
	c.observeQueueSize()
	if removed {
		c.publish(notify.EventQueueUpdated, map[string]interface{}{"size": c.queue.Size()})
		return successResult("left the queue")
	}
	return successResult("not in the queue")
}

// QueueSnapshot returns the waiting pool oldest-first.
func (c *Coordinator) QueueSnapshot() []models.QueueEntry {
	return c.queue.Snapshot()
}

// IsQueued reports whether the player currently waits in the queue.
func (c *Coordinator) IsQueued(playerID string) bool {
	return c.queue.IsQueued(playerID)
}

// IsInActiveMatch reports whether the player is a member of an in-progress match.
func (c *Coordinator) IsInActiveMatch(rootScope *envelope.Scope, playerID string) (bool, error) {
	_, err := c.store.FindInProgressMatchByPlayer(rootScope.Ctx, playerID)
	if err == storage.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetActiveMatches lists every in-progress match, oldest first.
func (c *Coordinator) GetActiveMatches(rootScope *envelope.Scope) ([]models.Match, error) {
	return c.store.ListMatchesByStatus(rootScope.Ctx, models.MatchStatusWaiting, models.MatchStatusActive)
}

// GetMatchDetails returns one match with its teams and memberships.
func (c *Coordinator) GetMatchDetails(rootScope *envelope.Scope, matchID string) (*models.Match, error) {
	m, err := c.store.GetMatch(rootScope.Ctx, matchID)
	if err == storage.ErrNotFound {
		return nil, models.ValidationErrorMatchNotFound
	}
	return m, err
}

// GetPlayerMatchHistory returns the player's matches, newest first.
func (c *Coordinator) GetPlayerMatchHistory(rootScope *envelope.Scope, playerID string, limit int) ([]models.Match, error) {
	return c.store.ListPlayerMatches(rootScope.Ctx, playerID, limit)
}

// ClearQueue empties the waiting pool. Administrative.
func (c *Coordinator) ClearQueue(rootScope *envelope.Scope) error {
	scope := rootScope.NewChildScope("Coordinator.ClearQueue")
	defer scope.Finish()

	if err := c.queue.Clear(scope); err != nil {
		return err
	}
	c.observeQueueSize()
	c.publish(notify.EventQueueUpdated, map[string]interface{}{"size": 0})
	return nil
}

// SweepQueue evicts entries older than the configured timeout. Intended to be
// called by a periodic collaborator.
func (c *Coordinator) SweepQueue(rootScope *envelope.Scope) []string {
	scope := rootScope.NewChildScope("Coordinator.SweepQueue")
	defer scope.Finish()

	maxAge := time.Duration(c.cfg.QueueEntryTimeoutMinutes) * time.Minute
	evicted := c.queue.SweepStale(scope, maxAge)
	if len(evicted) > 0 {
		c.observeQueueSize()
		c.publish(notify.EventQueueUpdated, map[string]interface{}{"size": c.queue.Size()})
	}
	return evicted
}
