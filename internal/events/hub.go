package events

import (
	"sync"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

// ProgressEvent is one observed transition of a generation request.
type ProgressEvent struct {
	RequestID   string                 `json:"request_id"`
	Status      types.GenerationStatus `json:"status"`
	CurrentStep string                 `json:"current_step"`
	Progress    int                    `json:"progress"`
	Error       string                 `json:"error,omitempty"`
}

// Hub fans progress events out to subscribers by request id. Polling the
// store stays supported; this push channel is optional for consumers that
// want to await transitions instead.
type Hub struct {
	mu   sync.RWMutex
	log  *logger.Logger
	subs map[string]map[chan ProgressEvent]bool
}

func NewHub(baseLog *logger.Logger) *Hub {
	return &Hub{
		log:  baseLog.With("component", "ProgressHub"),
		subs: map[string]map[chan ProgressEvent]bool{},
	}
}

// Subscribe returns a channel of events for one request id and a cancel
// function. The channel is buffered; a slow consumer drops events rather
// than blocking the publisher.
func (h *Hub) Subscribe(requestID string) (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 16)

	h.mu.Lock()
	set, ok := h.subs[requestID]
	if !ok {
		set = map[chan ProgressEvent]bool{}
		h.subs[requestID] = set
	}
	set[ch] = true
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[requestID]; ok {
			if set[ch] {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, requestID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(ev ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.RequestID] {
		select {
		case ch <- ev:
		default:
			h.log.Debug("subscriber buffer full, dropping event", "request_id", ev.RequestID)
		}
	}
}
