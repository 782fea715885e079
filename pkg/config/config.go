// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"github.com/caarlos0/env"
)

type Config struct {
	KFactor                  int  `env:"RATING_K_FACTOR"             envDefault:"32"    envDocs:"k-factor used to derive per-match rating deltas"`
	StreakThreshold          int  `env:"STREAK_THRESHOLD"            envDefault:"3"     envDocs:"win streak length at which the streak bonus starts"`
	StreakBonusPerWin        int  `env:"STREAK_BONUS_PER_WIN"        envDefault:"5"     envDocs:"bonus rating per win past the streak threshold"`
	StreakMaxBonus           int  `env:"STREAK_MAX_BONUS"            envDefault:"25"    envDocs:"cap for the streak bonus added to a winner delta"`
	QueueMinPlayers          int  `env:"QUEUE_MIN_PLAYERS"           envDefault:"4"     envDocs:"queue size at which a match formation pass is triggered"`
	QueueMaxPlayers          int  `env:"QUEUE_MAX_PLAYERS"           envDefault:"10"    envDocs:"maximum players consumed by a single match formation"`
	QueueEntryTimeoutMinutes int  `env:"QUEUE_ENTRY_TIMEOUT_MINUTES" envDefault:"30"    envDocs:"queue entries older than this are evicted by the sweep"`
	VoteKickMajorityPercent  int  `env:"VOTE_KICK_MAJORITY_PERCENT"  envDefault:"60"    envDocs:"percentage of eligible voters needed to approve a kick"`
	VoteKickMinVotes         int  `env:"VOTE_KICK_MIN_VOTES"         envDefault:"2"     envDocs:"lower bound on required approvals regardless of match size"`
	CleanupCountdownTicks    int  `env:"CLEANUP_COUNTDOWN_TICKS"     envDefault:"10"    envDocs:"one-second ticks before post-match cleanup runs"`
	RequeueAfterMatch        bool `env:"REQUEUE_AFTER_MATCH"         envDefault:"true"  envDocs:"return players to the queue after a completed match"`
}

// ParseConfig reads configuration from the process environment.
func ParseConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
