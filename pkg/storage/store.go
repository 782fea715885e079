// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package storage defines the persistence collaborator of the coordinator
// and provides a Postgres implementation plus an in-memory one for tests and
// single-node deployments.
package storage

import (
	"context"
	"errors"

	"github.com/arenaworks/scrims/pkg/models"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary of the coordinator. Implementations must
// make CreateMatch atomic: the match, both teams and all memberships are
// persisted together or not at all.
type Store interface {
	// players
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	GetPlayers(ctx context.Context, ids []string) ([]models.Player, error)
	UpsertPlayer(ctx context.Context, p *models.Player) error
	UpdatePlayer(ctx context.Context, p *models.Player) error

	// queue entries (durable mirror of the in-memory queue)
	SaveQueueEntry(ctx context.Context, e *models.QueueEntry) error
	DeleteQueueEntry(ctx context.Context, playerID string) error
	DeleteAllQueueEntries(ctx context.Context) error
	ListQueueEntries(ctx context.Context) ([]models.QueueEntry, error)

	// matches
	CreateMatch(ctx context.Context, m *models.Match) error
	GetMatch(ctx context.Context, id string) (*models.Match, error)
	UpdateMatch(ctx context.Context, m *models.Match) error
	ListMatchesByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]models.Match, error)
	FindInProgressMatchByPlayer(ctx context.Context, playerID string) (*models.Match, error)
	ListPlayerMatches(ctx context.Context, playerID string, limit int) ([]models.Match, error)

	// vote kicks
	CreateVoteKick(ctx context.Context, vk *models.VoteKick) error
	GetVoteKick(ctx context.Context, id string) (*models.VoteKick, error)
	FindPendingVoteKick(ctx context.Context, matchID, targetPlayerID string) (*models.VoteKick, error)
	// UpdateVoteKickStatus transitions PENDING to the given terminal status.
	// It is a compare-and-swap: an already resolved vote kick yields
	// models.ValidationErrorKickResolved, so racing resolutions settle on one
	// winner.
	UpdateVoteKickStatus(ctx context.Context, id string, status models.VoteKickStatus) error
	AddVote(ctx context.Context, v *models.Vote) error
}
