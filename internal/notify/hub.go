// Package notify fans out change events from the post list controller to the view layer.
package notify

import (
	"sync"

	"github.com/debemdeboas/postboard/internal/model"
)

type Kind string

const (
	KindReplaced Kind = "replaced" // mirror reloaded from the remote collection
	KindCreated  Kind = "created"
	KindUpdated  Kind = "updated"
	KindDeleted  Kind = "deleted"
	KindDraft    Kind = "draft" // draft form changed, mirror untouched
)

type Event struct {
	Kind   Kind
	PostID model.PostID
}

// Listener receives events on C. Events are dropped when the buffer is full, so a slow view
// only misses intermediate notifications and re-reads the latest snapshot.
type Listener struct {
	C chan Event
}

type Hub struct {
	listeners map[*Listener]bool
	mu        sync.RWMutex
}

const listenerBuffer = 16

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[*Listener]bool),
	}
}

func (h *Hub) Subscribe() *Listener {
	l := &Listener{C: make(chan Event, listenerBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[l] = true
	return l
}

// Unsubscribe closes l.C. Calling it twice is a no-op.
func (h *Hub) Unsubscribe(l *Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.listeners[l] {
		return
	}
	delete(h.listeners, l)
	close(l.C)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for l := range h.listeners {
		select {
		case l.C <- ev:
		default:
		}
	}
}
