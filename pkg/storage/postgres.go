// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"errors"

	"github.com/arenaworks/scrims/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresConfig holds connection parameters for the relational store.
type PostgresConfig struct {
	DSN string `json:"dsn" env:"POSTGRES_DSN"`
}

// PostgresStore implements Store on top of gorm/Postgres.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens the connection and migrates the schema.
func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.Player{},
		&models.QueueEntry{},
		&models.Match{},
		&models.Team{},
		&models.TeamMembership{},
		&models.VoteKick{},
		&models.Vote{},
	); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var p models.Player
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (s *PostgresStore) GetPlayers(ctx context.Context, ids []string) ([]models.Player, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error
	return players, translateErr(err)
}

func (s *PostgresStore) UpsertPlayer(ctx context.Context, p *models.Player) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(p).Error
}

func (s *PostgresStore) UpdatePlayer(ctx context.Context, p *models.Player) error {
	res := s.db.WithContext(ctx).Model(&models.Player{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"display_name": p.DisplayName,
		"rating":       p.Rating,
		"wins":         p.Wins,
		"losses":       p.Losses,
		"win_streak":   p.WinStreak,
		"loss_streak":  p.LossStreak,
		"active":       p.Active,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SaveQueueEntry(ctx context.Context, e *models.QueueEntry) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		UpdateAll: true,
	}).Create(e).Error
}

func (s *PostgresStore) DeleteQueueEntry(ctx context.Context, playerID string) error {
	return s.db.WithContext(ctx).Delete(&models.QueueEntry{}, "player_id = ?", playerID).Error
}

func (s *PostgresStore) DeleteAllQueueEntries(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.QueueEntry{}).Error
}

func (s *PostgresStore) ListQueueEntries(ctx context.Context) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := s.db.WithContext(ctx).Order("joined_at ASC").Find(&entries).Error
	return entries, translateErr(err)
}

// CreateMatch persists the match, its teams and memberships in one transaction.
func (s *PostgresStore) CreateMatch(ctx context.Context, m *models.Match) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
}

func (s *PostgresStore) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	var m models.Match
	err := s.db.WithContext(ctx).
		Preload("Teams").Preload("Teams.Members").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

func (s *PostgresStore) UpdateMatch(ctx context.Context, m *models.Match) error {
	res := s.db.WithContext(ctx).Model(&models.Match{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"status":          m.Status,
		"finished_at":     m.FinishedAt,
		"winning_team_id": m.WinningTeamID,
		"channel_ref":     m.ChannelRef,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListMatchesByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]models.Match, error) {
	var matches []models.Match
	err := s.db.WithContext(ctx).
		Preload("Teams").Preload("Teams.Members").
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&matches).Error
	return matches, translateErr(err)
}

func (s *PostgresStore) FindInProgressMatchByPlayer(ctx context.Context, playerID string) (*models.Match, error) {
	var membership models.TeamMembership
	err := s.db.WithContext(ctx).
		Joins("JOIN matches ON matches.id = team_memberships.match_id").
		Where("team_memberships.player_id = ? AND matches.status IN ?", playerID,
			[]models.MatchStatus{models.MatchStatusWaiting, models.MatchStatusActive}).
		First(&membership).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return s.GetMatch(ctx, membership.MatchID)
}

func (s *PostgresStore) ListPlayerMatches(ctx context.Context, playerID string, limit int) ([]models.Match, error) {
	var memberships []models.TeamMembership
	err := s.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Find(&memberships).Error
	if err != nil {
		return nil, translateErr(err)
	}
	matchIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		matchIDs = append(matchIDs, m.MatchID)
	}
	var matches []models.Match
	q := s.db.WithContext(ctx).
		Preload("Teams").Preload("Teams.Members").
		Where("id IN ?", matchIDs).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err = q.Find(&matches).Error
	return matches, translateErr(err)
}

func (s *PostgresStore) CreateVoteKick(ctx context.Context, vk *models.VoteKick) error {
	return s.db.WithContext(ctx).Create(vk).Error
}

func (s *PostgresStore) GetVoteKick(ctx context.Context, id string) (*models.VoteKick, error) {
	var vk models.VoteKick
	err := s.db.WithContext(ctx).Preload("Votes").First(&vk, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &vk, nil
}

func (s *PostgresStore) FindPendingVoteKick(ctx context.Context, matchID, targetPlayerID string) (*models.VoteKick, error) {
	var vk models.VoteKick
	err := s.db.WithContext(ctx).Preload("Votes").
		Where("match_id = ? AND target_player_id = ? AND status = ?",
			matchID, targetPlayerID, models.VoteKickStatusPending).
		First(&vk).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &vk, nil
}

func (s *PostgresStore) UpdateVoteKickStatus(ctx context.Context, id string, status models.VoteKickStatus) error {
	res := s.db.WithContext(ctx).Model(&models.VoteKick{}).
		Where("id = ? AND status = ?", id, models.VoteKickStatusPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.VoteKick{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return models.ValidationErrorKickResolved
	}
	return nil
}

func (s *PostgresStore) AddVote(ctx context.Context, v *models.Vote) error {
	err := s.db.WithContext(ctx).Create(v).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ValidationErrorDuplicateVote
	}
	return err
}
