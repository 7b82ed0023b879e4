package observe

import (
	"sync"

	"github.com/google/uuid"
)

// Topics published by the storefront services.
const (
	TopicCartBadge      = "cart_badge"
	TopicHiddenProducts = "hidden_products"
)

// Event is a broadcast payload scoped to one user. For cart badge events
// Count carries the summed quantity shown on the badge.
type Event struct {
	Topic   string
	UserID  uuid.UUID
	Count   int
	Payload any
}

const subscriberBuffer = 8

// Hub fans events out to in-process subscribers per topic. Publishing never
// blocks; a subscriber that falls behind loses events rather than stalling
// the writer.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Event
	closed bool
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a listener on the topic and returns its event channel
// plus a cancel function. The channel is closed when cancel runs or the hub
// shuts down.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan Event)
	}
	h.subs[topic][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[topic][id]; ok {
			delete(h.subs[topic], id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its topic without blocking.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for _, ch := range h.subs[event.Topic] {
		select {
		case ch <- event:
		default:
			// slow subscriber, drop the event
		}
	}
}

// Close shuts the hub down and closes every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for topic, subs := range h.subs {
		for id, ch := range subs {
			delete(subs, id)
			close(ch)
		}
		delete(h.subs, topic)
	}
}
