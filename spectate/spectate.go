// Package spectate fans out game snapshots from the driver loop to any
// number of read-only watchers.
package spectate

import (
	"sync"

	"termtris/tetris"
)

// Hub keeps the latest snapshot and forwards new ones to subscribers.
// A slow subscriber never blocks Publish: it only ever sees the newest snapshot.
type Hub struct {
	mu     sync.Mutex
	latest *tetris.Snapshot
	subs   map[chan *tetris.Snapshot]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan *tetris.Snapshot]struct{})}
}

// Publish stores s as the latest snapshot and hands it to every subscriber.
func (h *Hub) Publish(s *tetris.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest = s
	for ch := range h.subs {
		offer(ch, s)
	}
}

// Subscribe returns a channel of snapshots and a function to stop receiving.
// The latest snapshot, if any, is delivered straight away. The channel is
// closed when cancel is called or the hub is closed.
func (h *Hub) Subscribe() (<-chan *tetris.Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan *tetris.Snapshot, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	if h.latest != nil {
		ch <- h.latest
	}
	h.subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Latest returns the last published snapshot, nil if nothing was published yet.
func (h *Hub) Latest() *tetris.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// offer replaces whatever is waiting in ch with s.
func offer(ch chan *tetris.Snapshot, s *tetris.Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
