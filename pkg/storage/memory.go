// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/arenaworks/scrims/pkg/models"

	"github.com/mitchellh/copystructure"
)

// MemoryStore implements Store with in-memory maps guarded by one RWMutex.
// Values are deep-copied on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	players   map[string]models.Player
	entries   map[string]models.QueueEntry
	matches   map[string]models.Match
	voteKicks map[string]models.VoteKick
	// preserves match insertion order for stable history listings
	matchOrder []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:   make(map[string]models.Player),
		entries:   make(map[string]models.QueueEntry),
		matches:   make(map[string]models.Match),
		voteKicks: make(map[string]models.VoteKick),
	}
}

func deepCopyMatch(m models.Match) models.Match {
	copied, err := copystructure.Copy(m)
	if err != nil {
		return m
	}
	return copied.(models.Match)
}

func deepCopyVoteKick(vk models.VoteKick) models.VoteKick {
	copied, err := copystructure.Copy(vk)
	if err != nil {
		return vk
	}
	return copied.(models.VoteKick)
}

func (s *MemoryStore) GetPlayer(_ context.Context, id string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) GetPlayers(_ context.Context, ids []string) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (s *MemoryStore) UpsertPlayer(_ context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdatePlayer(_ context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[p.ID]; !ok {
		return ErrNotFound
	}
	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) SaveQueueEntry(_ context.Context, e *models.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[e.PlayerID] = *e
	return nil
}

func (s *MemoryStore) DeleteQueueEntry(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, playerID)
	return nil
}

func (s *MemoryStore) DeleteAllQueueEntries(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]models.QueueEntry)
	return nil
}

func (s *MemoryStore) ListQueueEntries(_ context.Context) ([]models.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.QueueEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})
	return entries, nil
}

func (s *MemoryStore) CreateMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches[m.ID] = deepCopyMatch(*m)
	s.matchOrder = append(s.matchOrder, m.ID)
	return nil
}

func (s *MemoryStore) GetMatch(_ context.Context, id string) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := deepCopyMatch(m)
	return &copied, nil
}

func (s *MemoryStore) UpdateMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[m.ID]; !ok {
		return ErrNotFound
	}
	s.matches[m.ID] = deepCopyMatch(*m)
	return nil
}

func (s *MemoryStore) ListMatchesByStatus(_ context.Context, statuses ...models.MatchStatus) ([]models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Match
	for _, id := range s.matchOrder {
		m := s.matches[id]
		for _, status := range statuses {
			if m.Status == status {
				result = append(result, deepCopyMatch(m))
				break
			}
		}
	}
	return result, nil
}

func (s *MemoryStore) FindInProgressMatchByPlayer(_ context.Context, playerID string) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.matchOrder {
		m := s.matches[id]
		if !m.IsInProgress() {
			continue
		}
		if m.HasPlayer(playerID) {
			copied := deepCopyMatch(m)
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListPlayerMatches(_ context.Context, playerID string, limit int) ([]models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Match
	// newest first
	for i := len(s.matchOrder) - 1; i >= 0; i-- {
		m := s.matches[s.matchOrder[i]]
		if !m.HasPlayer(playerID) {
			continue
		}
		result = append(result, deepCopyMatch(m))
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *MemoryStore) CreateVoteKick(_ context.Context, vk *models.VoteKick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.voteKicks[vk.ID] = deepCopyVoteKick(*vk)
	return nil
}

func (s *MemoryStore) GetVoteKick(_ context.Context, id string) (*models.VoteKick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vk, ok := s.voteKicks[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := deepCopyVoteKick(vk)
	return &copied, nil
}

func (s *MemoryStore) FindPendingVoteKick(_ context.Context, matchID, targetPlayerID string) (*models.VoteKick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, vk := range s.voteKicks {
		if vk.MatchID == matchID && vk.TargetPlayerID == targetPlayerID && vk.Status == models.VoteKickStatusPending {
			copied := deepCopyVoteKick(vk)
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateVoteKickStatus(_ context.Context, id string, status models.VoteKickStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vk, ok := s.voteKicks[id]
	if !ok {
		return ErrNotFound
	}
	if vk.Status != models.VoteKickStatusPending {
		return models.ValidationErrorKickResolved
	}
	vk.Status = status
	s.voteKicks[id] = vk
	return nil
}

func (s *MemoryStore) AddVote(_ context.Context, v *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vk, ok := s.voteKicks[v.VoteKickID]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range vk.Votes {
		if existing.VoterID == v.VoterID {
			return models.ValidationErrorDuplicateVote
		}
	}
	vk.Votes = append(vk.Votes, *v)
	s.voteKicks[v.VoteKickID] = vk
	return nil
}
