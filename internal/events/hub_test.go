package events

import (
	"testing"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

func TestHubDeliversToSubscriber(t *testing.T) {
	h := NewHub(logger.NewNop())

	ch, cancel := h.Subscribe("req-1")
	defer cancel()

	h.Publish(ProgressEvent{RequestID: "req-1", Status: types.GenerationStatusResearching, Progress: 10})

	select {
	case ev := <-ch:
		if ev.Status != types.GenerationStatusResearching || ev.Progress != 10 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("event not delivered")
	}
}

func TestHubIsolatesRequestIDs(t *testing.T) {
	h := NewHub(logger.NewNop())

	ch, cancel := h.Subscribe("req-1")
	defer cancel()

	h.Publish(ProgressEvent{RequestID: "req-2", Progress: 50})

	select {
	case ev := <-ch:
		t.Fatalf("event for another request leaked: %+v", ev)
	default:
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	h := NewHub(logger.NewNop())

	ch, cancel := h.Subscribe("req-1")
	defer cancel()

	// Publisher must never block, even against a stalled consumer.
	for i := 0; i < 100; i++ {
		h.Publish(ProgressEvent{RequestID: "req-1", Progress: i})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
			continue
		default:
		}
		break
	}
	if drained == 0 || drained > 16 {
		t.Fatalf("drained = %d, want between 1 and the buffer size", drained)
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	h := NewHub(logger.NewNop())

	ch, cancel := h.Subscribe("req-1")
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}

	// Publishing after cancel must not panic or deliver.
	h.Publish(ProgressEvent{RequestID: "req-1"})
}
