// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package queue holds the waiting pool. One mutex serializes every queue
// mutation and every formation decision, so two near-simultaneous threshold
// checks can never consume the same players twice.
package queue

import (
	"sync"
	"time"

	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/models"
	"github.com/arenaworks/scrims/pkg/storage"
)

// QueueStore is the ordered waiting pool. Entries are kept oldest-first,
// higher priority entries ahead of lower ones. A durable mirror of every
// entry is written through to the store.
type QueueStore struct {
	mu         sync.Mutex
	entries    []models.QueueEntry
	processing map[string]bool

	store storage.Store
	pool  *models.Pool
}

// NewQueueStore creates an empty queue backed by the given store.
func NewQueueStore(store storage.Store) *QueueStore {
	return &QueueStore{
		processing: make(map[string]bool),
		store:      store,
		pool:       models.NewPool(),
	}
}

// Restore reloads durable queue entries, oldest first. Called once at startup.
func (q *QueueStore) Restore(scope *envelope.Scope) error {
	entries, err := q.store.ListQueueEntries(scope.Ctx)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = entries
	scope.Log.WithField("restored", len(entries)).Info("queue restored from store")
	return nil
}

// Enqueue adds the player to the waiting pool. It fails with a typed
// validation error if the player already holds an entry or is a member of an
// in-progress match.
func (q *QueueStore) Enqueue(scope *envelope.Scope, playerID string) error {
	return q.EnqueueWithPriority(scope, playerID, 0)
}

// EnqueueWithPriority is Enqueue with an explicit priority. Higher priority
// entries are placed ahead of lower ones; equal priorities keep join order.
func (q *QueueStore) EnqueueWithPriority(scope *envelope.Scope, playerID string, priority int) error {
	if _, err := q.store.FindInProgressMatchByPlayer(scope.Ctx, playerID); err == nil {
		return models.ValidationErrorAlreadyInMatch
	} else if err != storage.ErrNotFound {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.indexOfLocked(playerID) >= 0 {
		return models.ValidationErrorAlreadyQueued
	}

	entry := models.QueueEntry{
		PlayerID: playerID,
		JoinedAt: time.Now().UTC(),
		Priority: priority,
	}
	q.insertLocked(entry)

	if err := q.store.SaveQueueEntry(scope.Ctx, &entry); err != nil {
		// roll the in-memory insert back, the entry was never durable
		q.removeLocked(playerID)
		return err
	}

	scope.Log.WithField("playerID", playerID).WithField("queueSize", len(q.entries)).Debug("player enqueued")
	return nil
}

// Dequeue removes the player's entry if present and reports whether a removal
// occurred. Calling it for an absent player is not an error.
func (q *QueueStore) Dequeue(scope *envelope.Scope, playerID string) bool {
	q.mu.Lock()
	removed := q.removeLocked(playerID)
	q.mu.Unlock()

	if removed {
		if err := q.store.DeleteQueueEntry(scope.Ctx, playerID); err != nil {
			scope.Log.WithField("playerID", playerID).Errorf("failed to delete durable queue entry: %s", err)
		}
	}
	return removed
}

// Snapshot returns a point-in-time copy of the queue, oldest first.
func (q *QueueStore) Snapshot() []models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]models.QueueEntry, len(q.entries))
	copy(snapshot, q.entries)
	return snapshot
}

// Size returns the current number of waiting players.
func (q *QueueStore) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// IsQueued reports whether the player currently holds a queue entry.
func (q *QueueStore) IsQueued(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.indexOfLocked(playerID) >= 0
}

// Clear removes every entry. Administrative bulk removal.
func (q *QueueStore) Clear(scope *envelope.Scope) error {
	q.mu.Lock()
	q.entries = nil
	q.mu.Unlock()

	return q.store.DeleteAllQueueEntries(scope.Ctx)
}

// MarkProcessing flags players as mid-transition between a finished match and
// the queue. Marked players are skipped by TakeCandidates. Every caller must
// pair this with UnmarkProcessing on all exit paths, including errors.
func (q *QueueStore) MarkProcessing(playerIDs ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, id := range playerIDs {
		q.processing[id] = true
	}
}

// UnmarkProcessing clears the mid-transition flag.
func (q *QueueStore) UnmarkProcessing(playerIDs ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, id := range playerIDs {
		delete(q.processing, id)
	}
}

// IsProcessing reports whether the player is currently marked.
func (q *QueueStore) IsProcessing(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing[playerID]
}

// TakeCandidates atomically checks the formation threshold and, when met,
// removes and returns up to max of the oldest unmarked entries. Returns nil
// when fewer than min unmarked players are waiting. The check and the removal
// happen under one lock, which is what makes concurrent formation passes safe.
func (q *QueueStore) TakeCandidates(scope *envelope.Scope, min, max int) []models.QueueEntry {
	q.mu.Lock()

	eligible := q.pool.QueueEntries.Get()
	for _, e := range q.entries {
		if q.processing[e.PlayerID] {
			continue
		}
		eligible = append(eligible, e)
		if len(eligible) == max {
			break
		}
	}

	if len(eligible) < min {
		q.mu.Unlock()
		q.pool.QueueEntries.Put(eligible[:0])
		return nil
	}

	taken := make([]models.QueueEntry, len(eligible))
	copy(taken, eligible)
	for _, e := range taken {
		q.removeLocked(e.PlayerID)
	}
	q.mu.Unlock()
	q.pool.QueueEntries.Put(eligible[:0])

	for _, e := range taken {
		if err := q.store.DeleteQueueEntry(scope.Ctx, e.PlayerID); err != nil {
			scope.Log.WithField("playerID", e.PlayerID).Errorf("failed to delete durable queue entry: %s", err)
		}
	}

	return taken
}

// SweepStale evicts entries older than maxAge and returns the evicted player
// ids. Intended to be driven by a periodic collaborator.
func (q *QueueStore) SweepStale(scope *envelope.Scope, maxAge time.Duration) []string {
	cutoff := time.Now().UTC().Add(-maxAge)

	q.mu.Lock()
	var evicted []string
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.JoinedAt.Before(cutoff) {
			evicted = append(evicted, e.PlayerID)
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
	q.mu.Unlock()

	for _, id := range evicted {
		if err := q.store.DeleteQueueEntry(scope.Ctx, id); err != nil {
			scope.Log.WithField("playerID", id).Errorf("failed to delete stale queue entry: %s", err)
		}
	}
	if len(evicted) > 0 {
		scope.Log.WithField("evicted", evicted).Info("stale queue entries evicted")
	}
	return evicted
}

func (q *QueueStore) indexOfLocked(playerID string) int {
	for i := range q.entries {
		if q.entries[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

func (q *QueueStore) insertLocked(entry models.QueueEntry) {
	// place ahead of the first strictly lower priority entry,
	// default priority 0 degenerates to plain append
	for i := range q.entries {
		if q.entries[i].Priority < entry.Priority {
			q.entries = append(q.entries[:i], append([]models.QueueEntry{entry}, q.entries[i:]...)...)
			return
		}
	}
	q.entries = append(q.entries, entry)
}

func (q *QueueStore) removeLocked(playerID string) bool {
	i := q.indexOfLocked(playerID)
	if i < 0 {
		return false
	}
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	return true
}

// Store exposes the durable store backing the queue.
func (q *QueueStore) Store() storage.Store {
	return q.store
}
