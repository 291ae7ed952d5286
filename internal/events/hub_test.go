package events

import (
	"testing"
	"time"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub(nil, 4)
	id, ch := hub.Subscribe()
	defer hub.Unsubscribe(id)

	hub.Publish(Event{Type: TypeSignalExecuted, SignalID: 7, Outcome: "profit"})

	select {
	case ev := <-ch:
		if ev.Type != TypeSignalExecuted || ev.SignalID != 7 {
			t.Fatalf("got %+v", ev)
		}
		if ev.At.IsZero() {
			t.Fatalf("publish did not stamp event time")
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil, 1)
	id, _ := hub.Subscribe()
	defer hub.Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		// Buffer is 1 and nobody reads; extra publishes must be dropped.
		for i := 0; i < 10; i++ {
			hub.Publish(Event{Type: TypeTimerStarted, SignalID: uint64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(nil, 1)
	id, ch := hub.Subscribe()
	hub.Unsubscribe(id)

	if _, open := <-ch; open {
		t.Fatal("channel still open after unsubscribe")
	}
	if hub.Subscribers() != 0 {
		t.Fatalf("subscribers = %d, want 0", hub.Subscribers())
	}
	// Publishing to an empty hub is a no-op.
	hub.Publish(Event{Type: TypeSignalExpired})
}
