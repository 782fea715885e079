// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

// Package notify holds the outward-facing collaborators of the coordinator:
// the best-effort channel notifier and the event bus display consumers
// subscribe to. Every notifier call is fallible and must never block a core
// state transition.
package notify

import (
	"github.com/arenaworks/scrims/pkg/envelope"
)

// ChannelRef identifies an external communication channel for one match.
type ChannelRef string

// Notifier is the external communication collaborator. Implementations wrap
// whatever chat platform the deployment uses. ResolveChannel owns the
// id-then-name-then-scan fallback chain internally; callers only see an
// Option-style result.
type Notifier interface {
	CreateChannel(scope *envelope.Scope, matchID string) (ChannelRef, error)
	ResolveChannel(scope *envelope.Scope, matchID string) (ChannelRef, bool)
	SendMessage(scope *envelope.Scope, ref ChannelRef, message string) error
	DeleteChannel(scope *envelope.Scope, ref ChannelRef) error
}

// NoopNotifier satisfies Notifier without any external system. Used when the
// deployment runs headless and by tests that don't care about notifications.
type NoopNotifier struct{}

func (NoopNotifier) CreateChannel(_ *envelope.Scope, matchID string) (ChannelRef, error) {
	return ChannelRef("noop-" + matchID), nil
}

func (NoopNotifier) ResolveChannel(_ *envelope.Scope, matchID string) (ChannelRef, bool) {
	return ChannelRef("noop-" + matchID), true
}

func (NoopNotifier) SendMessage(_ *envelope.Scope, _ ChannelRef, _ string) error {
	return nil
}

func (NoopNotifier) DeleteChannel(_ *envelope.Scope, _ ChannelRef) error {
	return nil
}
