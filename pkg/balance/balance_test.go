// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package balance

import (
	"testing"

	"github.com/arenaworks/scrims/pkg/mathutil"
	"github.com/arenaworks/scrims/pkg/models"

	"github.com/stretchr/testify/assert"
)

func player(id string, rating int) models.Player {
	return models.Player{ID: id, Rating: rating}
}

func memberIDs(players []models.Player) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}

func Test_Balance(t *testing.T) {
	type testCase struct {
		name     string
		players  []models.Player
		wantA    []string
		wantB    []string
		wantAvgA int
		wantAvgB int
	}

	tests := []testCase{
		{
			name:     "1v1 puts one player per team",
			players:  []models.Player{player("a", 1200), player("b", 900)},
			wantA:    []string{"a"},
			wantB:    []string{"b"},
			wantAvgA: 1200,
			wantAvgB: 900,
		},
		{
			name: "alternating draft over descending ratings",
			players: []models.Player{
				player("a", 1200), player("b", 1100), player("c", 1000), player("d", 900),
			},
			wantA:    []string{"a", "c"},
			wantB:    []string{"b", "d"},
			wantAvgA: 1100,
			wantAvgB: 1000,
		},
		{
			name: "odd count gives team A the extra player",
			players: []models.Player{
				player("a", 1500), player("b", 1400), player("c", 1300),
				player("d", 1200), player("e", 1100),
			},
			wantA:    []string{"a", "c", "e"},
			wantB:    []string{"b", "d"},
			wantAvgA: 1300,
			wantAvgB: 1300,
		},
		{
			name: "input order is not trusted, sort drives assignment",
			players: []models.Player{
				player("d", 900), player("a", 1200), player("c", 1000), player("b", 1100),
			},
			wantA:    []string{"a", "c"},
			wantB:    []string{"b", "d"},
			wantAvgA: 1100,
			wantAvgB: 1000,
		},
		{
			name: "equal ratings stay deterministic by input order",
			players: []models.Player{
				player("a", 1000), player("b", 1000), player("c", 1000), player("d", 1000),
			},
			wantA:    []string{"a", "c"},
			wantB:    []string{"b", "d"},
			wantAvgA: 1000,
			wantAvgB: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Balance(tt.players)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantA, memberIDs(got.TeamA))
			assert.Equal(t, tt.wantB, memberIDs(got.TeamB))
			assert.Equal(t, tt.wantAvgA, got.AvgA)
			assert.Equal(t, tt.wantAvgB, got.AvgB)
		})
	}
}

func Test_Balance_notEnoughPlayers(t *testing.T) {
	_, err := Balance([]models.Player{player("a", 1000)})
	assert.ErrorIs(t, err, models.ValidationErrorNotEnoughPlayers)

	_, err = Balance(nil)
	assert.ErrorIs(t, err, models.ValidationErrorNotEnoughPlayers)
}

func Test_Balance_sizesDifferByAtMostOne(t *testing.T) {
	for n := 2; n <= 10; n++ {
		players := make([]models.Player, 0, n)
		for i := 0; i < n; i++ {
			players = append(players, player(string(rune('a'+i)), 800+i*37))
		}
		got, err := Balance(players)
		assert.NoError(t, err)
		assert.LessOrEqual(t, mathutil.Abs(len(got.TeamA)-len(got.TeamB)), 1, "n=%d", n)
		assert.Equal(t, n, len(got.TeamA)+len(got.TeamB), "n=%d", n)
	}
}
