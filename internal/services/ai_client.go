package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/utils"
)

// ErrAIRateLimited is returned when the caller-side hourly budget is
// exhausted.
var ErrAIRateLimited = errors.New("ai client rate limit exceeded")

type AIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// AIClient is the single external text-generation contract the pipeline
// depends on: role-tagged messages in, generated text out, errors on
// quota or auth failure.
type AIClient interface {
	Chat(ctx context.Context, messages []AIMessage, opts *AIOptions) (string, error)
}

type templateAIClient struct {
	log          *logger.Logger
	limiter      *slidingWindowLimiter
	callsPerHour int
	model        string
}

// NewTemplateAIClient returns the deterministic offline client. It honors
// the same contract and rate limits as a real provider so swapping one in
// later changes nothing upstream.
func NewTemplateAIClient(baseLog *logger.Logger) AIClient {
	callsPerHour := utils.GetEnvAsInt("AI_CALLS_PER_HOUR", 100, baseLog)
	model := utils.GetEnv("AI_MODEL", "academy-template-v1", nil)
	return &templateAIClient{
		log:          baseLog.With("service", "AIClient"),
		limiter:      newSlidingWindowLimiter(callsPerHour, time.Hour),
		callsPerHour: callsPerHour,
		model:        model,
	}
}

func (c *templateAIClient) Chat(ctx context.Context, messages []AIMessage, opts *AIOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages supplied")
	}
	if !c.limiter.AllowN("chat", c.callsPerHour) {
		return "", ErrAIRateLimited
	}

	model := c.model
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}

	// Deterministic expansion of the last user message. Real providers
	// plug in behind the same interface.
	var prompt string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			prompt = messages[i].Content
			break
		}
	}
	if prompt == "" {
		prompt = messages[len(messages)-1].Content
	}

	c.log.Debug("ai chat", "model", model, "prompt_len", len(prompt))

	subject := strings.TrimSpace(prompt)
	if idx := strings.IndexByte(subject, '\n'); idx > 0 {
		subject = subject[:idx]
	}
	out := fmt.Sprintf("%s In practice this means instrumenting early, reading the data in context, and wiring alerts so regressions surface before users report them.", subject)
	if opts != nil && opts.MaxTokens > 0 && len(out) > opts.MaxTokens*4 {
		out = out[:opts.MaxTokens*4]
	}
	return out, nil
}
