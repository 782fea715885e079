// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package coordinator

import (
	"fmt"
	"time"

	"github.com/arenaworks/scrims/pkg/balance"
	"github.com/arenaworks/scrims/pkg/common"
	"github.com/arenaworks/scrims/pkg/constants"
	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/notify"
	"github.com/arenaworks/scrims/pkg/storage"

	pie "github.com/elliotchance/pie/v2"
)

const (
	teamNameA = "Team Alpha"
	teamNameB = "Team Bravo"
)

// CreateMatch forms a match from an explicit player list. At least two
// distinct ids must resolve to valid, active players who are not already in
// an in-progress match. Channel creation is best-effort: its failure degrades
// the result but never fails the match.
func (c *Coordinator) CreateMatch(rootScope *envelope.Scope, playerIDs []string) (OperationResult, error) {
	scope := rootScope.NewChildScope("Coordinator.CreateMatch")
	defer scope.Finish()
	defer c.addElapsed(constants.CreateMatchFunction, time.Now())

	c.formMu.Lock()
	defer c.formMu.Unlock()

	distinct := pie.Unique(playerIDs)
	if len(distinct) < 2 {
		return failureResult(models.ValidationErrorNotEnoughPlayers.Error()), nil
	}

	players, err := c.store.GetPlayers(scope.Ctx, distinct)
	if err != nil {
		return failureResult("failed to load players"), err
	}
	players = pie.Filter(players, func(p models.Player) bool { return p.Active })

	// a player can hold membership in at most one in-progress match, so
	// anyone still bound to one is filtered like any other invalid id
	available := make([]models.Player, 0, len(players))
	for _, p := range players {
		_, findErr := c.store.FindInProgressMatchByPlayer(scope.Ctx, p.ID)
		if findErr == storage.ErrNotFound {
			available = append(available, p)
			continue
		}
		if findErr != nil {
			return failureResult("failed to look up matches"), findErr
		}
		scope.Log.WithField("playerID", p.ID).Warn("skipping player already in an in-progress match")
	}
	players = available
	if len(players) < 2 {
		return failureResult(models.ValidationErrorNotEnoughPlayers.Error()), nil
	}

	// match formation supersedes any waiting entry these players hold
	for _, p := range players {
		c.queue.Dequeue(scope, p.ID)
	}
	c.observeQueueSize()

	return c.buildMatch(scope, players)
}

// TryFormMatch runs one queue-driven formation pass: when enough unmarked
// players are waiting, they are atomically taken from the queue and formed
// into a match. Returns false when the threshold was not met.
func (c *Coordinator) TryFormMatch(rootScope *envelope.Scope) (OperationResult, bool) {
	scope := rootScope.NewChildScope("Coordinator.TryFormMatch")
	defer scope.Finish()

	entries := c.queue.TakeCandidates(scope, c.cfg.QueueMinPlayers, c.cfg.QueueMaxPlayers)
	if len(entries) == 0 {
		return OperationResult{}, false
	}

	ids := pie.Map(entries, func(e models.QueueEntry) string { return e.PlayerID })
	scope.SetAttributes(envelope.TeamMembersTag, ids)

	players, err := c.store.GetPlayers(scope.Ctx, ids)
	if err == nil {
		players = pie.Filter(players, func(p models.Player) bool { return p.Active })
	}
	if err != nil || len(players) < 2 {
		scope.Log.WithField("players", ids).Warn("formation pass aborted, returning players to queue")
		c.requeuePlayers(scope, ids)
		return failureResult(models.ValidationErrorNotEnoughPlayers.Error()), true
	}

	result, buildErr := c.buildMatch(scope, players)
	if buildErr != nil || !result.Success {
		// never lose the taken players on a failed formation
		c.requeuePlayers(scope, ids)
	}
	c.observeQueueSize()
	c.publish(notify.EventQueueUpdated, map[string]interface{}{"size": c.queue.Size()})
	return result, true
}

// buildMatch persists the match, both teams and all memberships atomically,
// flips it to ACTIVE, then attempts channel creation and the team
// announcement as recoverable side effects.
func (c *Coordinator) buildMatch(scope *envelope.Scope, players []models.Player) (OperationResult, error) {
	bal, err := balance.Balance(players)
	if err != nil {
		return failureResult(err.Error()), nil
	}

	matchID := newMatchID()
	scope.SetAttributes(envelope.MatchIDTag, matchID)

	teamA := models.Team{ID: common.GenerateUUID(), MatchID: matchID, Name: teamNameA, AverageRating: bal.AvgA}
	teamB := models.Team{ID: common.GenerateUUID(), MatchID: matchID, Name: teamNameB, AverageRating: bal.AvgB}
	for _, p := range bal.TeamA {
		teamA.Members = append(teamA.Members, models.TeamMembership{TeamID: teamA.ID, PlayerID: p.ID, MatchID: matchID})
	}
	for _, p := range bal.TeamB {
		teamB.Members = append(teamB.Members, models.TeamMembership{TeamID: teamB.ID, PlayerID: p.ID, MatchID: matchID})
	}

	match := &models.Match{
		ID:        matchID,
		Status:    models.MatchStatusWaiting,
		CreatedAt: time.Now().UTC(),
		Teams:     []models.Team{teamA, teamB},
	}

	if err := c.store.CreateMatch(scope.Ctx, match); err != nil {
		scope.Log.Errorf("failed to persist match: %s", err)
		return failureResult("failed to persist match"), err
	}

	match.Status = models.MatchStatusActive
	if err := c.store.UpdateMatch(scope.Ctx, match); err != nil {
		scope.Log.Errorf("failed to activate match: %s", err)
		return failureResult("failed to activate match"), err
	}

	if c.metrics != nil {
		c.metrics.AddMatchCreated()
	}
	c.publish(notify.EventMatchCreated, map[string]interface{}{
		"match_id": matchID,
		"team_a":   teamA.MemberIDs(),
		"team_b":   teamB.MemberIDs(),
	})
	scope.Log.WithField("matchID", matchID).
		WithField("avgA", bal.AvgA).
		WithField("avgB", bal.AvgB).
		Info("match created")

	ref, chanErr := c.notifier.CreateChannel(scope, matchID)
	if chanErr != nil {
		scope.Log.WithField("matchID", matchID).Errorf("channel creation failed: %s", chanErr)
		result := degradedResult("match created, but its channel could not be created")
		result.MatchID = matchID
		return result, nil
	}

	refStr := string(ref)
	match.ChannelRef = &refStr
	if err := c.store.UpdateMatch(scope.Ctx, match); err != nil {
		scope.Log.Errorf("failed to record channel ref: %s", err)
	}
	announcement := fmt.Sprintf("%s (avg %d) vs %s (avg %d)", teamNameA, bal.AvgA, teamNameB, bal.AvgB)
	if err := c.notifier.SendMessage(scope, ref, announcement); err != nil {
		scope.Log.Errorf("team announcement failed: %s", err)
	}

	result := successResult("match created")
	result.MatchID = matchID
	return result, nil
}
