// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Event types published by the coordinator. The core neither knows nor cares
// why anyone listens.
const (
	EventQueueUpdated     = "queue_updated"
	EventMatchCreated     = "match_created"
	EventMatchEnded       = "match_ended"
	EventMatchCancelled   = "match_cancelled"
	EventVoteKickResolved = "vote_kick_resolved"
)

// Event is one published coordinator event.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Upstream is an optional cross-instance publisher (e.g. NATS).
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// EventBus fans coordinator events out to local subscribers, optionally
// bridging through an upstream so other instances see them too.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream
}

// NewEventBus creates a local-only bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// NewEventBusWithUpstream creates a bus bridged to an upstream publisher.
// Events published here go to the upstream, which broadcasts to every
// instance; events arriving from the upstream are forwarded to local
// subscribers.
func NewEventBusWithUpstream(upstream Upstream) *EventBus {
	bus := &EventBus{upstream: upstream}

	go func() {
		ch := upstream.Subscribe()
		for event := range ch {
			bus.publishLocal(event)
		}
		logrus.Debug("event bus upstream channel closed")
	}()

	return bus
}

// Subscribe adds a subscriber and returns its receive channel.
func (b *EventBus) Subscribe() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 16)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			close(ch)
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers, through the upstream when one is
// configured. Delivery is best-effort: a full subscriber channel is skipped.
func (b *EventBus) Publish(event Event) {
	if b.upstream != nil {
		b.upstream.Publish(event)
		return
	}
	b.publishLocal(event)
}

func (b *EventBus) publishLocal(event Event) {
	b.mu.RLock()
	subs := make([]chan Event, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// slow subscriber, drop rather than block the coordinator
		}
	}
}
