package session

import (
	"sync"

	"colorharmony/model"
)

type subscriber struct {
	ch     chan model.Notification
	closed bool
}

// Broadcaster fans notifications out to subscribers. A subscriber whose
// buffer is full is dropped and its channel closed rather than blocking
// the sender.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a new listener with the given buffer size and returns
// its channel plus a function that unsubscribes it.
func (b *Broadcaster) Subscribe(buffer int) (<-chan model.Notification, func()) {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscriber{ch: make(chan model.Notification, buffer)}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub.ch, func() { b.remove(sub) }
}

func (b *Broadcaster) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}

// Broadcast delivers n to every subscriber without blocking.
func (b *Broadcaster) Broadcast(n model.Notification) {
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	var slow []*subscriber
	for _, s := range subs {
		b.mu.RLock()
		_, live := b.subs[s]
		if live {
			select {
			case s.ch <- n:
			default:
				slow = append(slow, s)
			}
		}
		b.mu.RUnlock()
	}

	for _, s := range slow {
		b.remove(s)
	}
}

func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops every subscriber.
func (b *Broadcaster) Close() {
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		b.remove(s)
	}
}
