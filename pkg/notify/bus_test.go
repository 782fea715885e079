// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"testing"
	"time"

	"github.com/arenaworks/scrims/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveOne(t *testing.T, ch chan Event) Event {
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func Test_EventBus_fanOut(t *testing.T) {
	bus := NewEventBus()
	first := bus.Subscribe()
	second := bus.Subscribe()

	bus.Publish(Event{Type: EventQueueUpdated, Payload: map[string]interface{}{"size": 3}})

	e := receiveOne(t, first)
	assert.Equal(t, EventQueueUpdated, e.Type)
	size, ok := common.GetMapValueAs[int](e.Payload, "size")
	assert.True(t, ok)
	assert.Equal(t, 3, size)

	e = receiveOne(t, second)
	assert.Equal(t, EventQueueUpdated, e.Type)
}

func Test_EventBus_unsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// publishing after unsubscribe must not panic
	bus.Publish(Event{Type: EventMatchCreated})
}

func Test_EventBus_slowSubscriberIsDropped(t *testing.T) {
	bus := NewEventBus()
	slow := bus.Subscribe()

	// fill the buffer and then some; the overflow is dropped, not blocking
	for i := 0; i < 40; i++ {
		bus.Publish(Event{Type: EventMatchEnded})
	}

	drained := 0
	for {
		select {
		case <-slow:
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 16, drained)
}

type fakeUpstream struct {
	published []Event
	ch        chan Event
}

func (u *fakeUpstream) Publish(e Event) {
	u.published = append(u.published, e)
	u.ch <- e
}

func (u *fakeUpstream) Subscribe() chan Event { return u.ch }

func (u *fakeUpstream) Unsubscribe(chan Event) {}

func Test_EventBus_bridgesThroughUpstream(t *testing.T) {
	upstream := &fakeUpstream{ch: make(chan Event, 1)}
	bus := NewEventBusWithUpstream(upstream)
	local := bus.Subscribe()

	bus.Publish(Event{Type: EventVoteKickResolved})

	// the event went out through the upstream and came back to local subscribers
	e := receiveOne(t, local)
	assert.Equal(t, EventVoteKickResolved, e.Type)
	require.Equal(t, 1, len(upstream.published))
}
