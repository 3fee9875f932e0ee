// Package event carries coordinator events (store changes, phase
// transitions, title updates) to connected readers.
package event

import "sync"

const (
	TypeChange       = "change"
	TypeNotification = "notification"
	TypeTitle        = "title"
	TypeTitleReset   = "title_reset"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Bus is an in-process publish/subscribe fanout. Publishing never blocks:
// a subscriber that falls behind its buffer misses events, which readers
// tolerate by re-fetching state explicitly.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe returns a receive channel with the given buffer and a cancel
// function. Cancel closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, buffer)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
	}
}
