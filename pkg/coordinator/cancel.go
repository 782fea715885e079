// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package coordinator

import (
	"time"

	"github.com/arenaworks/scrims/pkg/constants"
	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/notify"
	"github.com/arenaworks/scrims/pkg/storage"

	pie "github.com/elliotchance/pie/v2"
)

const (
	cancelReasonAdmin     = "admin"
	cancelReasonExclusion = "exclusion"
	cancelReasonWipe      = "wipe"
)

// CancelMatch aborts an in-progress match and returns every member to the
// queue. No rating changes are applied.
func (c *Coordinator) CancelMatch(rootScope *envelope.Scope, matchID string) (OperationResult, error) {
	return c.cancelMatch(rootScope, matchID, "", true, cancelReasonAdmin)
}

// CancelMatchExcluding aborts the match and returns every member except the
// excluded player to the queue. Used for voluntary departures and approved
// vote kicks.
func (c *Coordinator) CancelMatchExcluding(rootScope *envelope.Scope, matchID string, excludedPlayerID string) (OperationResult, error) {
	return c.cancelMatch(rootScope, matchID, excludedPlayerID, true, cancelReasonExclusion)
}

// CancelMatchNoRequeue aborts the match without re-queueing anyone.
// Administrative wipe.
func (c *Coordinator) CancelMatchNoRequeue(rootScope *envelope.Scope, matchID string) (OperationResult, error) {
	return c.cancelMatch(rootScope, matchID, "", false, cancelReasonWipe)
}

func (c *Coordinator) cancelMatch(rootScope *envelope.Scope, matchID string, excludedPlayerID string, requeue bool, reason string) (OperationResult, error) {
	scope := rootScope.NewChildScope("Coordinator.CancelMatch")
	defer scope.Finish()
	defer c.addElapsed(constants.CancelMatchFunction, time.Now())
	scope.SetAttributes(envelope.MatchIDTag, matchID)

	match, err := c.store.GetMatch(scope.Ctx, matchID)
	if err == storage.ErrNotFound {
		return failureResult(models.ValidationErrorMatchNotFound.Error()), nil
	}
	if err != nil {
		return failureResult("failed to load match"), err
	}
	if match.IsTerminal() {
		return failureResult(models.ValidationErrorMatchTerminal.Error()), nil
	}

	now := time.Now().UTC()
	match.Status = models.MatchStatusCancelled
	match.FinishedAt = &now
	if err := c.store.UpdateMatch(scope.Ctx, match); err != nil {
		scope.Log.Errorf("failed to cancel match: %s", err)
		return failureResult("failed to cancel match"), err
	}

	if c.metrics != nil {
		c.metrics.AddMatchCancelled(reason)
	}
	c.publish(notify.EventMatchCancelled, map[string]interface{}{
		"match_id": matchID,
		"reason":   reason,
	})
	scope.Log.WithField("matchID", matchID).
		WithField("reason", reason).
		WithField("excluded", excludedPlayerID).
		Info("match cancelled")

	var requeueIDs []string
	if requeue {
		requeueIDs = pie.Filter(match.PlayerIDs(), func(id string) bool { return id != excludedPlayerID })
	}

	ref, hasChannel := c.notifier.ResolveChannel(scope, matchID)
	c.scheduleCleanup(scope, matchID, requeueIDs, ref, hasChannel, true)

	if !hasChannel {
		return degradedResult("match cancelled, channel could not be located"), nil
	}
	return successResult("match cancelled"), nil
}
