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
	"github.com/arenaworks/scrims/pkg/rating"
	"github.com/arenaworks/scrims/pkg/storage"
)

// EndMatch records the outcome of an in-progress match. A WAITING match may
// be ended directly, no forced ACTIVE transition is required. The winning
// team may be referenced by id or by name. Rating updates are applied
// per-player; the cleanup countdown that re-queues players and tears down the
// channel runs as a deferred task after this returns.
func (c *Coordinator) EndMatch(rootScope *envelope.Scope, matchID string, winningTeam string) (OperationResult, error) {
	scope := rootScope.NewChildScope("Coordinator.EndMatch")
	defer scope.Finish()
	defer c.addElapsed(constants.EndMatchFunction, time.Now())
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

	winner := match.TeamByID(winningTeam)
	if winner == nil {
		winner = match.TeamByName(winningTeam)
	}
	if winner == nil {
		return failureResult(models.ValidationErrorTeamNotInMatch.Error()), nil
	}

	now := time.Now().UTC()
	match.Status = models.MatchStatusCompleted
	match.FinishedAt = &now
	match.WinningTeamID = &winner.ID
	if err := c.store.UpdateMatch(scope.Ctx, match); err != nil {
		scope.Log.Errorf("failed to complete match: %s", err)
		return failureResult("failed to complete match"), err
	}

	c.applyRatings(scope, match, winner.ID)

	if c.metrics != nil {
		c.metrics.AddMatchCompleted(now.Sub(match.CreatedAt))
	}
	c.publish(notify.EventMatchEnded, map[string]interface{}{
		"match_id":     matchID,
		"winning_team": winner.ID,
	})
	scope.Log.WithField("matchID", matchID).WithField("winningTeam", winner.Name).Info("match completed")

	var requeueIDs []string
	if c.cfg.RequeueAfterMatch {
		requeueIDs = match.PlayerIDs()
	}

	ref, hasChannel := c.notifier.ResolveChannel(scope, matchID)
	c.scheduleCleanup(scope, matchID, requeueIDs, ref, hasChannel, true)

	if !hasChannel {
		// players are still re-queued through the fallback path
		return degradedResult("match completed, channel could not be located"), nil
	}
	return successResult("match completed"), nil
}

// applyRatings runs the rating engine for every member of the match. Updates
// are independent per player; a single failed update is logged and skipped,
// never aborting the rest.
func (c *Coordinator) applyRatings(scope *envelope.Scope, match *models.Match, winningTeamID string) {
	for i := range match.Teams {
		team := &match.Teams[i]
		isWinner := team.ID == winningTeamID
		for _, memberID := range team.MemberIDs() {
			p, err := c.store.GetPlayer(scope.Ctx, memberID)
			if err != nil {
				scope.Log.WithField("playerID", memberID).Errorf("rating update skipped, player load failed: %s", err)
				continue
			}
			out := rating.ApplyOutcome(*p, isWinner, c.cfg)
			rating.ApplyToPlayer(p, out)
			if err := c.store.UpdatePlayer(scope.Ctx, p); err != nil {
				scope.Log.WithField("playerID", memberID).Errorf("rating update failed: %s", err)
				continue
			}
			scope.Log.WithField("playerID", memberID).
				WithField("delta", out.Delta).
				WithField("newRating", out.NewRating).
				Debug("rating applied")
		}
	}
}
