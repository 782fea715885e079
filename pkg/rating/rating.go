// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package rating computes rating deltas and streak bookkeeping from match
// outcomes. It is intentionally a fixed-fraction-of-k model rather than
// classical Elo: losers lose less than winners gain, as an anti-tilt measure
// for close matches. Do not replace it with an expected-score formula.
package rating

import (
	"math"

	"github.com/arenaworks/scrims/pkg/config"
	"github.com/arenaworks/scrims/pkg/mathutil"
	"github.com/arenaworks/scrims/pkg/models"
)

const (
	winnerKFraction = 0.75
	loserKFraction  = 0.625

	// RatingFloor is the minimum rating a player can hold.
	// Enforced here and nowhere else.
	RatingFloor = 1
)

// Outcome is the full result of applying one match result to one player.
type Outcome struct {
	NewRating     int
	NewWins       int
	NewLosses     int
	NewWinStreak  int
	NewLossStreak int
	Delta         int
	StreakBonus   int
}

// ApplyOutcome returns the updated rating state for a player after a match.
// It is a pure function: the input player is not mutated.
func ApplyOutcome(p models.Player, isWinner bool, cfg *config.Config) Outcome {
	if isWinner {
		return applyWin(p, cfg)
	}
	return applyLoss(p, cfg)
}

func applyWin(p models.Player, cfg *config.Config) Outcome {
	delta := int(math.Round(float64(cfg.KFactor) * winnerKFraction))

	newWinStreak := p.WinStreak + 1
	bonus := streakBonus(newWinStreak, cfg)
	delta += bonus

	return Outcome{
		NewRating:     mathutil.Max(RatingFloor, p.Rating+delta),
		NewWins:       p.Wins + 1,
		NewLosses:     p.Losses,
		NewWinStreak:  newWinStreak,
		NewLossStreak: 0,
		Delta:         delta,
		StreakBonus:   bonus,
	}
}

func applyLoss(p models.Player, cfg *config.Config) Outcome {
	delta := -int(math.Round(float64(cfg.KFactor) * loserKFraction))

	return Outcome{
		NewRating:     mathutil.Max(RatingFloor, p.Rating+delta),
		NewWins:       p.Wins,
		NewLosses:     p.Losses + 1,
		NewWinStreak:  0,
		NewLossStreak: p.LossStreak + 1,
		Delta:         delta,
		StreakBonus:   0,
	}
}

// streakBonus rewards winners only, once the streak reaches the configured
// threshold, capped at the configured maximum.
func streakBonus(winStreak int, cfg *config.Config) int {
	if winStreak < cfg.StreakThreshold {
		return 0
	}
	bonus := int(math.Floor(float64(winStreak-cfg.StreakThreshold+1) * float64(cfg.StreakBonusPerWin)))
	return mathutil.Min(cfg.StreakMaxBonus, bonus)
}

// ApplyToPlayer copies an outcome back onto a player record.
func ApplyToPlayer(p *models.Player, out Outcome) {
	p.Rating = out.NewRating
	p.Wins = out.NewWins
	p.Losses = out.NewLosses
	p.WinStreak = out.NewWinStreak
	p.LossStreak = out.NewLossStreak
}
