// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package coordinator

import (
	"sync"
	"testing"

	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/testsetup"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateMatch_balancesBySnakeDraft(t *testing.T) {
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1200, "b": 1100, "c": 1000, "d": 900})

	match := h.mustCreateMatch(t, []string{"a", "b", "c", "d"})

	assert.Equal(t, models.MatchStatusActive, match.Status)
	require.Equal(t, 2, len(match.Teams))

	alpha := match.TeamByName(teamNameA)
	bravo := match.TeamByName(teamNameB)
	require.NotNil(t, alpha)
	require.NotNil(t, bravo)

	assert.ElementsMatch(t, []string{"a", "c"}, alpha.MemberIDs())
	assert.ElementsMatch(t, []string{"b", "d"}, bravo.MemberIDs())
	assert.Equal(t, 1100, alpha.AverageRating)
	assert.Equal(t, 1000, bravo.AverageRating)
}

func Test_CreateMatch_collapsesDuplicatesAndSkipsUnknownIDs(t *testing.T) {
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})

	match := h.mustCreateMatch(t, []string{"a", "a", "b", "ghost"})
	assert.ElementsMatch(t, []string{"a", "b"}, match.PlayerIDs())
}

func Test_CreateMatch_notEnoughPlayers(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000})

	type args struct {
		playerIDs []string
	}
	type testCase struct {
		name string
		args args
	}
	var tests []testCase
	tests = append(tests, testCase{name: "single id", args: args{playerIDs: []string{"a"}}})
	tests = append(tests, testCase{name: "same id twice", args: args{playerIDs: []string{"a", "a"}}})
	tests = append(tests, testCase{name: "one valid one unknown", args: args{playerIDs: []string{"a", "ghost"}}})
	tests = append(tests, testCase{name: "empty", args: args{playerIDs: nil}})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.c.CreateMatch(scope, tt.args.playerIDs)
			assert.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, models.ValidationErrorNotEnoughPlayers.Error(), result.Message)
		})
	}

	matches, err := h.store.ListMatchesByStatus(scope.Ctx, models.MatchStatusWaiting, models.MatchStatusActive)
	assert.NoError(t, err)
	assert.Empty(t, matches)
}

func Test_CreateMatch_ignoresInactivePlayers(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "c": 1000})
	inactive := &models.Player{ID: "b", DisplayName: "b", Rating: 1000, Active: false}
	require.NoError(t, h.store.UpsertPlayer(scope.Ctx, inactive))

	match := h.mustCreateMatch(t, []string{"a", "b", "c"})
	assert.ElementsMatch(t, []string{"a", "c"}, match.PlayerIDs())
}

func Test_CreateMatch_skipsPlayersAlreadyInMatch(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000, "c": 1000, "d": 1000})

	first := h.mustCreateMatch(t, []string{"a", "b"})

	// a is still bound to the first match, leaving only c available
	result, err := h.c.CreateMatch(scope, []string{"a", "c"})
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, models.ValidationErrorNotEnoughPlayers.Error(), result.Message)

	inMatch, err := h.store.FindInProgressMatchByPlayer(scope.Ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, inMatch.ID)

	// free players are unaffected
	second := h.mustCreateMatch(t, []string{"c", "d"})
	assert.ElementsMatch(t, []string{"c", "d"}, second.PlayerIDs())
}

func Test_CreateMatch_removesMembersFromQueue(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})
	require.NoError(t, h.queue.Enqueue(scope, "a"))
	require.NoError(t, h.queue.Enqueue(scope, "b"))

	h.mustCreateMatch(t, []string{"a", "b"})
	assert.False(t, h.c.IsQueued("a"))
	assert.False(t, h.c.IsQueued("b"))
}

func Test_CreateMatch_channelFailureDegradesButPersists(t *testing.T) {
	scope := testsetup.NewTestScope()
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1000, "b": 1000})
	h.notifier.FailCreate = true

	result, err := h.c.CreateMatch(scope, []string{"a", "b"})
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Degraded)
	require.NotEmpty(t, result.MatchID)

	match, err := h.store.GetMatch(scope.Ctx, result.MatchID)
	assert.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, match.Status)
	assert.Nil(t, match.ChannelRef)
}

func Test_CreateMatch_announcesTeams(t *testing.T) {
	h := newHarness()
	h.seedPlayers(t, map[string]int{"a": 1200, "b": 800})

	match := h.mustCreateMatch(t, []string{"a", "b"})
	require.NotNil(t, match.ChannelRef)
	assert.Equal(t, "chan-"+match.ID, *match.ChannelRef)

	messages := h.notifier.SentMessages()
	require.Equal(t, 1, len(messages))
	assert.Contains(t, messages[0], teamNameA)
	assert.Contains(t, messages[0], teamNameB)
}

// Eight players join at once with a formation threshold of four. However the
// passes interleave, no player may end up in two matches and nobody may be
// lost: everyone is either waiting or in exactly one in-progress match.
func Test_ConcurrentEnqueues_playersNeverOverlapMatches(t *testing.T) {
	g := testsetup.WithGomega(t)
	h := newHarness()
	h.cfg.QueueMinPlayers = 4
	h.cfg.QueueMaxPlayers = 4

	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := h.c.EnqueuePlayer(g.TestScope, id, id)
			g.Expect(err).To(BeNil())
		}(id)
	}
	wg.Wait()

	matches, err := h.store.ListMatchesByStatus(g.TestScope.Ctx, models.MatchStatusWaiting, models.MatchStatusActive)
	g.Expect(err).To(BeNil())

	seen := map[string]int{}
	matched := 0
	for _, m := range matches {
		for _, id := range m.PlayerIDs() {
			seen[id]++
			matched++
		}
	}
	for id, count := range seen {
		g.Expect(count).To(Equal(1), "player %s appears in %d matches", id, count)
	}

	queued := h.queue.Size()
	g.Expect(matched + queued).To(Equal(len(ids)))
	for _, id := range ids {
		if seen[id] == 1 {
			g.Expect(h.c.IsQueued(id)).To(BeFalse(), "player %s is both matched and queued", id)
		}
	}
}
