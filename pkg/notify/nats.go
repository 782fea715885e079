// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// NATSUpstream implements Upstream over a NATS subject so several coordinator
// instances can share display-refresh events.
type NATSUpstream struct {
	nc          *nats.Conn
	sub         *nats.Subscription
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
}

// NewNATSUpstream connects and subscribes to the given subject.
func NewNATSUpstream(natsURL, subject string) (*NATSUpstream, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	u := &NATSUpstream{
		nc:      nc,
		subject: subject,
	}

	u.sub, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logrus.Errorf("failed to unmarshal event from NATS: %s", err)
			return
		}
		u.fanOut(event)
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	return u, nil
}

// Publish marshals the event and publishes it on the subject. The local
// fan-out happens when the message comes back through the subscription.
func (u *NATSUpstream) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logrus.Errorf("failed to marshal event: %s", err)
		return
	}
	if err := u.nc.Publish(u.subject, data); err != nil {
		logrus.Errorf("failed to publish event to NATS: %s", err)
	}
}

// Subscribe creates a local receive channel for events from the subject.
func (u *NATSUpstream) Subscribe() chan Event {
	ch := make(chan Event, 64)

	u.mu.Lock()
	u.subscribers = append(u.subscribers, ch)
	u.mu.Unlock()

	return ch
}

// Unsubscribe removes a local receive channel.
func (u *NATSUpstream) Unsubscribe(ch chan Event) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for i, sub := range u.subscribers {
		if sub == ch {
			u.subscribers = append(u.subscribers[:i], u.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close drains the subscription and closes the connection.
func (u *NATSUpstream) Close() {
	u.mu.Lock()
	for _, sub := range u.subscribers {
		close(sub)
	}
	u.subscribers = nil
	u.mu.Unlock()

	if u.sub != nil {
		_ = u.sub.Unsubscribe()
	}
	if u.nc != nil {
		u.nc.Close()
	}
}

func (u *NATSUpstream) fanOut(event Event) {
	u.mu.RLock()
	subs := make([]chan Event, len(u.subscribers))
	copy(subs, u.subscribers)
	u.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}
