package api

import (
	"sync"
	"sync/atomic"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

// FrameHub fans out each committed tick's NDJSON encoding to every currently
// subscribed SSE client. Grounded on the mcp package's session/notify-channel
// pattern, generalized from a per-session unicast to a broadcast: there is no
// session identity here, only "every client watching the live stream".
type FrameHub struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
	currentTick atomic.Uint64
}

// NewFrameHub builds an empty hub.
func NewFrameHub() *FrameHub {
	return &FrameHub{subscribers: make(map[chan []byte]struct{})}
}

// Subscribe registers a new client and returns its delivery channel. The
// channel is buffered so one slow reader can't stall Broadcast for others;
// a subscriber that falls too far behind has frames dropped, not the hub
// blocked (a live feed favors recency over completeness).
func (h *FrameHub) Subscribe() chan []byte {
	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a client's channel.
func (h *FrameHub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast encodes frame and delivers it to every current subscriber,
// dropping it for any subscriber whose buffer is full.
func (h *FrameHub) Broadcast(frame domain.Frame) error {
	line, err := frame.ToNDJSON()
	if err != nil {
		return err
	}
	h.currentTick.Store(frame.T)

	raw := []byte(line)
	if len(raw) > 0 && raw[len(raw)-1] == '\n' {
		raw = raw[:len(raw)-1]
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- raw:
		default:
		}
	}
	return nil
}

// CurrentTick returns the most recently broadcast tick number, or 0 if none
// has been broadcast yet.
func (h *FrameHub) CurrentTick() uint64 {
	return h.currentTick.Load()
}
