// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"errors"
	"sync"

	"github.com/arenaworks/scrims/pkg/envelope"
	"github.com/arenaworks/scrims/pkg/notify"
)

// StubNotifier records every notifier call and can be told to fail any of
// them, so tests can exercise the degraded-success paths.
type StubNotifier struct {
	mu sync.Mutex

	FailCreate  bool
	FailResolve bool
	FailSend    bool
	FailDelete  bool

	CreatedChannels []string
	DeletedChannels []string
	Messages        []string
}

func (n *StubNotifier) CreateChannel(_ *envelope.Scope, matchID string) (notify.ChannelRef, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailCreate {
		return "", errors.New("stub: channel creation failed")
	}
	n.CreatedChannels = append(n.CreatedChannels, matchID)
	return notify.ChannelRef("chan-" + matchID), nil
}

func (n *StubNotifier) ResolveChannel(_ *envelope.Scope, matchID string) (notify.ChannelRef, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailResolve {
		return "", false
	}
	return notify.ChannelRef("chan-" + matchID), true
}

func (n *StubNotifier) SendMessage(_ *envelope.Scope, _ notify.ChannelRef, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailSend {
		return errors.New("stub: message delivery failed")
	}
	n.Messages = append(n.Messages, message)
	return nil
}

func (n *StubNotifier) DeleteChannel(_ *envelope.Scope, ref notify.ChannelRef) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailDelete {
		return errors.New("stub: channel deletion failed")
	}
	n.DeletedChannels = append(n.DeletedChannels, string(ref))
	return nil
}

// SentMessages returns a copy of the recorded messages.
func (n *StubNotifier) SentMessages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.Messages))
	copy(out, n.Messages)
	return out
}

// DeletedChannelRefs returns a copy of the recorded deletions.
func (n *StubNotifier) DeletedChannelRefs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.DeletedChannels))
	copy(out, n.DeletedChannels)
	return out
}
