package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
)

func TestAIClientChat(t *testing.T) {
	c := NewTemplateAIClient(logger.NewNop())

	out, err := c.Chat(context.Background(), []AIMessage{
		{Role: "system", Content: "You write course descriptions."},
		{Role: "user", Content: "A course about profiling."},
	}, nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(out, "A course about profiling.") {
		t.Fatalf("output should expand the user prompt, got %q", out)
	}
}

func TestAIClientNoMessages(t *testing.T) {
	c := NewTemplateAIClient(logger.NewNop())

	if _, err := c.Chat(context.Background(), nil, nil); err == nil {
		t.Fatal("empty message list should error")
	}
}

func TestAIClientCancelledContext(t *testing.T) {
	c := NewTemplateAIClient(logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Chat(ctx, []AIMessage{{Role: "user", Content: "x"}}, nil); err == nil {
		t.Fatal("cancelled context should error")
	}
}

func TestAIClientHourlyBudget(t *testing.T) {
	c := &templateAIClient{
		log:          logger.NewNop().With("service", "AIClient"),
		limiter:      newSlidingWindowLimiter(2, time.Hour),
		callsPerHour: 2,
		model:        "academy-template-v1",
	}

	msg := []AIMessage{{Role: "user", Content: "profiling"}}
	for i := 0; i < 2; i++ {
		if _, err := c.Chat(context.Background(), msg, nil); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if _, err := c.Chat(context.Background(), msg, nil); !errors.Is(err, ErrAIRateLimited) {
		t.Fatalf("err = %v, want ErrAIRateLimited", err)
	}
}
