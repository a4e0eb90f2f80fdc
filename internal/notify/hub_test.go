package notify

import (
	"sync"
	"testing"
)

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()

	if hub.Len() != 2 {
		t.Fatalf("Expected 2 listeners, got %d", hub.Len())
	}

	hub.Broadcast(Event{Kind: KindCreated, PostID: "2"})

	for i, l := range []*Listener{a, b} {
		select {
		case ev := <-l.C:
			if ev.Kind != KindCreated || ev.PostID != "2" {
				t.Errorf("Listener %d: unexpected event %+v", i, ev)
			}
		default:
			t.Errorf("Listener %d: expected an event", i)
		}
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	l := hub.Subscribe()

	hub.Unsubscribe(l)
	hub.Unsubscribe(l) // must not panic on double close

	if _, ok := <-l.C; ok {
		t.Error("Expected channel to be closed")
	}
	if hub.Len() != 0 {
		t.Errorf("Expected no listeners, got %d", hub.Len())
	}

	// Broadcasting with no listeners is fine
	hub.Broadcast(Event{Kind: KindDeleted})
}

func TestHub_SlowListenerDoesNotBlock(t *testing.T) {
	hub := NewHub()
	l := hub.Subscribe()

	for i := 0; i < listenerBuffer*3; i++ {
		hub.Broadcast(Event{Kind: KindDraft})
	}

	if len(l.C) != listenerBuffer {
		t.Errorf("Expected buffer to hold %d events, got %d", listenerBuffer, len(l.C))
	}
}

func TestHub_Concurrency(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l := hub.Subscribe()
			hub.Unsubscribe(l)
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast(Event{Kind: KindUpdated, PostID: "1"})
		}()
	}
	wg.Wait()
}
