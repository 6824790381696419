package alarm

import (
	"sync"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventStatusChanged EventKind = "status_changed"
	EventDateChanged   EventKind = "date_changed"
)

// Change values carried by status events in addition to the model statuses.
const (
	ChangeUpdated = "UPDATED"
	ChangeDeleted = "DELETED"
)

// Event is delivered to subscribers. For EventDateChanged AlarmID and
// Change are empty; observers should reload everything.
type Event struct {
	Kind    EventKind
	AlarmID string
	Change  string
}

type Listener func(Event)

type Subscription struct {
	ID  string
	hub *hub
}

// Unsubscribe stops delivery. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.remove(s.ID)
}

type subscriber struct {
	id string
	fn Listener
}

// hub delivers events synchronously, in subscription order, on the
// goroutine that published them.
type hub struct {
	mu   sync.RWMutex
	subs []subscriber
}

func (h *hub) add(fn Listener) *Subscription {
	id := uuid.NewString()
	h.mu.Lock()
	h.subs = append(h.subs, subscriber{id: id, fn: fn})
	h.mu.Unlock()
	return &Subscription{ID: id, hub: h}
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

func (h *hub) publish(ev Event) {
	h.mu.RLock()
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev)
	}
}
