// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package coordinator

import (
	"testing"

	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/testsetup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EndMatch_appliesRatingsAndRecordsWinner(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000, "c": 1000, "d": 1000})

	match := h.mustCreateMatch(t, []string{"a", "b", "c", "d"})
	winner := match.Teams[0]

	result, err := h.c.EndMatch(scope, match.ID, winner.ID)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.Degraded)

	completed, err := h.store.GetMatch(scope.Ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, completed.Status)
	require.NotNil(t, completed.FinishedAt)
	require.NotNil(t, completed.WinningTeamID)
	assert.Equal(t, winner.ID, *completed.WinningTeamID)

	// k=32: winners gain round(32*0.75)=24, losers drop round(32*0.625)=20
	for _, id := range winner.MemberIDs() {
		p, err := h.store.GetPlayer(scope.Ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1024, p.Rating)
		assert.Equal(t, 1, p.Wins)
		assert.Equal(t, 1, p.WinStreak)
		assert.Equal(t, 0, p.LossStreak)
	}
	for _, id := range match.Teams[1].MemberIDs() {
		p, err := h.store.GetPlayer(scope.Ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 980, p.Rating)
		assert.Equal(t, 1, p.Losses)
		assert.Equal(t, 1, p.LossStreak)
		assert.Equal(t, 0, p.WinStreak)
	}
}

func Test_EndMatch_acceptsTeamName(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})

	match := h.mustCreateMatch(t, []string{"a", "b"})

	result, err := h.c.EndMatch(scope, match.ID, teamNameB)
	assert.NoError(t, err)
	assert.True(t, result.Success)

	completed, err := h.store.GetMatch(scope.Ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.WinningTeamID)
	assert.Equal(t, match.TeamByName(teamNameB).ID, *completed.WinningTeamID)
}

func Test_EndMatch_secondCallFailsWithoutDoubleRating(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})

	match := h.mustCreateMatch(t, []string{"a", "b"})
	winner := match.Teams[0]

	first, err := h.c.EndMatch(scope, match.ID, winner.ID)
	assert.NoError(t, err)
	assert.True(t, first.Success)
	ratingAfterFirst := h.playerRating(t, winner.MemberIDs()[0])

	second, err := h.c.EndMatch(scope, match.ID, winner.ID)
	assert.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, models.ValidationErrorMatchTerminal.Error(), second.Message)
	assert.Equal(t, ratingAfterFirst, h.playerRating(t, winner.MemberIDs()[0]))
}

func Test_EndMatch_guards(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})
	match := h.mustCreateMatch(t, []string{"a", "b"})

	result, err := h.c.EndMatch(scope, "no-such-match", teamNameA)
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, models.ValidationErrorMatchNotFound.Error(), result.Message)

	result, err = h.c.EndMatch(scope, match.ID, "Team Charlie")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, models.ValidationErrorTeamNotInMatch.Error(), result.Message)

	// the bad team name must not have touched the match
	m, err := h.store.GetMatch(scope.Ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, m.Status)
}

func Test_EndMatch_requeuesMembersAfterCountdown(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000, "c": 1000, "d": 1000})

	match := h.mustCreateMatch(t, []string{"a", "b", "c", "d"})

	_, err := h.c.EndMatch(scope, match.ID, match.Teams[0].ID)
	require.NoError(t, err)
	h.c.WaitForCleanup(match.ID)

	for _, id := range []string{"a", "b", "c", "d"} {
		assert.True(t, h.c.IsQueued(id), "player %s not re-queued", id)
	}
	for _, e := range h.queue.Snapshot() {
		assert.True(t, e.JoinedAt.After(match.CreatedAt) || e.JoinedAt.Equal(match.CreatedAt))
	}
	assert.Contains(t, h.notifier.DeletedChannelRefs(), "chan-"+match.ID)
}

func Test_EndMatch_missingChannelDegradesButStillRequeues(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})
	match := h.mustCreateMatch(t, []string{"a", "b"})
	h.notifier.FailResolve = true

	result, err := h.c.EndMatch(scope, match.ID, match.Teams[0].ID)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Degraded)

	h.c.WaitForCleanup(match.ID)
	assert.True(t, h.c.IsQueued("a"))
	assert.True(t, h.c.IsQueued("b"))
	assert.Empty(t, h.notifier.DeletedChannelRefs())
}

func Test_EndMatch_requeueDisabled(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.cfg.RequeueAfterMatch = false
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})
	match := h.mustCreateMatch(t, []string{"a", "b"})

	_, err := h.c.EndMatch(scope, match.ID, match.Teams[0].ID)
	require.NoError(t, err)
	h.c.WaitForCleanup(match.ID)

	assert.Equal(t, 0, h.queue.Size())
	assert.Contains(t, h.notifier.DeletedChannelRefs(), "chan-"+match.ID)
}

func Test_EndMatch_skipsRequeueOfInactivePlayers(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})
	match := h.mustCreateMatch(t, []string{"a", "b"})

	p, err := h.store.GetPlayer(scope.Ctx, "b")
	require.NoError(t, err)
	p.Active = false
	require.NoError(t, h.store.UpdatePlayer(scope.Ctx, p))

	_, err = h.c.EndMatch(scope, match.ID, match.Teams[0].ID)
	require.NoError(t, err)
	h.c.WaitForCleanup(match.ID)

	assert.True(t, h.c.IsQueued("a"))
	assert.False(t, h.c.IsQueued("b"))
}
