package events

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	TypeTimerStarted   = "timer_started"
	TypeSignalExecuted = "signal_executed"
	TypeSignalExpired  = "signal_expired"
)

// Event is a lifecycle notification pushed to admin UI subscribers.
type Event struct {
	Type         string         `json:"type"`
	SignalID     uint64         `json:"signal_id,omitempty"`
	Outcome      string         `json:"outcome,omitempty"`
	Participants int            `json:"participants,omitempty"`
	Detail       map[string]any `json:"detail,omitempty"`
	At           time.Time      `json:"at"`
}

// Hub fans settlement lifecycle events out to subscribers. Publish never
// blocks; a subscriber that falls behind loses events rather than stalling
// the settlement path.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buf    int

	logger  *zap.Logger
	dropped uint64
}

func NewHub(logger *zap.Logger, subscriberBuffer int) *Hub {
	if subscriberBuffer <= 0 {
		subscriberBuffer = 16
	}
	return &Hub{
		subs:   map[uint64]chan Event{},
		buf:    subscriberBuffer,
		logger: logger,
	}
}

func (h *Hub) Subscribe() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	ch := make(chan Event, h.buf)
	h.subs[id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			n := atomic.AddUint64(&h.dropped, 1)
			if h.logger != nil && n%100 == 1 {
				h.logger.Warn("event hub dropping for slow subscriber", zap.Uint64("dropped_total", n))
			}
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
