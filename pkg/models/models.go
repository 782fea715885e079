// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package models contains the persisted entities of the scrim coordinator:
// players, queue entries, matches, teams, memberships and vote kicks.
package models

import (
	"time"

	"gorm.io/gorm"
)

// MatchStatus is the lifecycle state of a match.
// Transitions are one-way forward: WAITING -> ACTIVE -> {COMPLETED | CANCELLED}.
type MatchStatus string

const (
	MatchStatusWaiting   MatchStatus = "WAITING"
	MatchStatusActive    MatchStatus = "ACTIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// VoteKickStatus is the lifecycle state of a vote kick, terminal either way.
type VoteKickStatus string

const (
	VoteKickStatusPending  VoteKickStatus = "PENDING"
	VoteKickStatusApproved VoteKickStatus = "APPROVED"
	VoteKickStatusRejected VoteKickStatus = "REJECTED"
)

// Player is created on first queue join and mutated only by rating updates
// after match completion or by administrative edit.
type Player struct {
	ID          string `gorm:"primaryKey" json:"id"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	WinStreak   int    `json:"win_streak"`
	LossStreak  int    `json:"loss_streak"`
	Active      bool   `json:"active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// QueueEntry is a player waiting for a match. At most one per player.
type QueueEntry struct {
	PlayerID string    `gorm:"primaryKey" json:"player_id"`
	JoinedAt time.Time `json:"joined_at"`
	Priority int       `json:"priority"`
}

// Match is the root of one scrim session.
type Match struct {
	ID            string      `gorm:"primaryKey" json:"id"`
	Status        MatchStatus `gorm:"index" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	FinishedAt    *time.Time  `json:"finished_at,omitempty"`
	WinningTeamID *string     `json:"winning_team_id,omitempty"`
	ChannelRef    *string     `json:"channel_ref,omitempty"`
	Teams         []Team      `gorm:"foreignKey:MatchID" json:"teams"`
}

// IsInProgress reports whether the match still accepts lifecycle operations.
// WAITING and ACTIVE are both treated as in progress.
func (m *Match) IsInProgress() bool {
	return m.Status == MatchStatusWaiting || m.Status == MatchStatusActive
}

// IsTerminal reports whether the match reached an immutable state.
func (m *Match) IsTerminal() bool {
	return m.Status == MatchStatusCompleted || m.Status == MatchStatusCancelled
}

// TeamByID returns the team with the given id, or nil if it does not belong to the match.
func (m *Match) TeamByID(teamID string) *Team {
	for i := range m.Teams {
		if m.Teams[i].ID == teamID {
			return &m.Teams[i]
		}
	}
	return nil
}

// TeamByName returns the team with the given name (case-exact), or nil.
func (m *Match) TeamByName(name string) *Team {
	for i := range m.Teams {
		if m.Teams[i].Name == name {
			return &m.Teams[i]
		}
	}
	return nil
}

// PlayerIDs returns the ids of every member across both teams.
func (m *Match) PlayerIDs() []string {
	var ids []string
	for i := range m.Teams {
		ids = append(ids, m.Teams[i].MemberIDs()...)
	}
	return ids
}

// HasPlayer reports whether the player belongs to any team of the match.
func (m *Match) HasPlayer(playerID string) bool {
	for i := range m.Teams {
		if m.Teams[i].HasMember(playerID) {
			return true
		}
	}
	return false
}

// Team is one of exactly two sides of a match. Membership is immutable after
// creation, a departure cancels the match instead of substituting.
type Team struct {
	ID            string           `gorm:"primaryKey" json:"id"`
	MatchID       string           `gorm:"index" json:"match_id"`
	Name          string           `json:"name"`
	AverageRating int              `json:"average_rating"`
	Members       []TeamMembership `gorm:"foreignKey:TeamID" json:"members"`
}

// MemberIDs returns the player ids on the team.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.PlayerID)
	}
	return ids
}

// HasMember reports whether the player is on the team.
func (t *Team) HasMember(playerID string) bool {
	for _, m := range t.Members {
		if m.PlayerID == playerID {
			return true
		}
	}
	return false
}

// TeamMembership links a player to a team within one match.
type TeamMembership struct {
	TeamID   string `gorm:"primaryKey" json:"team_id"`
	PlayerID string `gorm:"primaryKey" json:"player_id"`
	MatchID  string `gorm:"index" json:"match_id"`
}

// VoteKick is an in-match proposal to remove a player. At most one active
// proposal per (match, target) pair.
type VoteKick struct {
	ID                string         `gorm:"primaryKey" json:"id"`
	MatchID           string         `gorm:"index" json:"match_id"`
	TargetPlayerID    string         `json:"target_player_id"`
	InitiatorPlayerID string         `json:"initiator_player_id"`
	Status            VoteKickStatus `json:"status"`
	RequiredVotes     int            `json:"required_votes"`
	CreatedAt         time.Time      `json:"created_at"`
	Votes             []Vote         `gorm:"foreignKey:VoteKickID" json:"votes"`
}

// IsResolved reports whether the proposal reached a terminal state.
func (vk *VoteKick) IsResolved() bool {
	return vk.Status == VoteKickStatusApproved || vk.Status == VoteKickStatusRejected
}

// HasVoted reports whether the voter already cast a vote.
func (vk *VoteKick) HasVoted(voterID string) bool {
	for _, v := range vk.Votes {
		if v.VoterID == voterID {
			return true
		}
	}
	return false
}

// CountApprovals returns the number of approve votes cast so far.
func (vk *VoteKick) CountApprovals() (count int) {
	for _, v := range vk.Votes {
		if v.Approve {
			count++
		}
	}
	return count
}

// CountRejections returns the number of reject votes cast so far.
func (vk *VoteKick) CountRejections() (count int) {
	for _, v := range vk.Votes {
		if !v.Approve {
			count++
		}
	}
	return count
}

// Vote is a single ballot on a vote kick, one per voter.
type Vote struct {
	VoteKickID string `gorm:"primaryKey" json:"vote_kick_id"`
	VoterID    string `gorm:"primaryKey" json:"voter_id"`
	Approve    bool   `json:"approve"`
}
