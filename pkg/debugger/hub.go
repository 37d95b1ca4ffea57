package debugger

import "sync"

const defaultSubscriberBuffer = 100

// hub fans rendered panel items out to live subscribers. Slow subscribers miss
// items rather than blocking the logger.
type hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan RenderedItem
	closed bool
}

func newHub() *hub {
	return &hub{
		subs: make(map[uint64]chan RenderedItem),
	}
}

func (h *hub) subscribe(buffer int) (<-chan RenderedItem, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		ch := make(chan RenderedItem)
		close(ch)
		return ch, func() {}
	}
	h.nextID++
	id := h.nextID
	ch := make(chan RenderedItem, buffer)
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if existing, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(existing)
		}
	}
}

func (h *hub) broadcast(item RenderedItem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- item:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
