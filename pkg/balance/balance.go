// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package balance partitions a player set into two rating-balanced sides.
package balance

import (
	"math"

	"github.com/arenaworks/scrims/pkg/models"

	pie "github.com/elliotchance/pie/v2"
	"gonum.org/v1/gonum/stat"
)

// Result holds the two sides produced by one balancing pass.
type Result struct {
	TeamA []models.Player
	TeamB []models.Player
	AvgA  int
	AvgB  int
}

// Balance splits players into two teams by alternating assignment over a
// rating-descending sort: sorted indices 0,2,4... go to team A, 1,3,5... to
// team B. This is a deterministic greedy heuristic, good enough for the small
// team sizes we form, not a globally optimal partition. Odd counts give team A
// the extra player. Requires at least 2 players.
func Balance(players []models.Player) (Result, error) {
	if len(players) < 2 {
		return Result{}, models.ValidationErrorNotEnoughPlayers
	}

	// stable sort keeps input order for equal ratings, so results are
	// reproducible for identical inputs
	sorted := pie.SortStableUsing(players, func(a, b models.Player) bool {
		return a.Rating > b.Rating
	})

	if len(sorted) == 2 {
		return Result{
			TeamA: sorted[:1],
			TeamB: sorted[1:],
			AvgA:  sorted[0].Rating,
			AvgB:  sorted[1].Rating,
		}, nil
	}

	var teamA, teamB []models.Player
	for i, p := range sorted {
		if i%2 == 0 {
			teamA = append(teamA, p)
		} else {
			teamB = append(teamB, p)
		}
	}

	return Result{
		TeamA: teamA,
		TeamB: teamB,
		AvgA:  averageRating(teamA),
		AvgB:  averageRating(teamB),
	}, nil
}

func averageRating(players []models.Player) int {
	ratings := pie.Map(players, func(p models.Player) float64 { return float64(p.Rating) })
	return int(math.Round(stat.Mean(ratings, nil)))
}
