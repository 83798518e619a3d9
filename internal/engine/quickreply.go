package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/volumio-labs/volumio-api/internal/llm"
	"github.com/volumio-labs/volumio-api/internal/logger"
)

const replyCacheTTL = time.Hour

// User-facing apology strings, in the assistant's language.
const (
	apologyNotUnderstood = "Mi dispiace, non ho capito. Puoi ripetere?"
	apologyError         = "Mi dispiace, si è verificato un errore nella generazione della risposta."
)

// QuickReply returns a short conversational reply to the input. Successful
// replies are cached for an hour keyed on the exact input text, so a repeat
// within the window answers from cache without touching the provider.
// Failures are never cached.
func (e *Engine) QuickReply(ctx context.Context, input string) string {
	if text, ok := e.replies.get(input); ok {
		return text
	}

	resp, err := e.provider.Generate(ctx, &llm.GenerationRequest{
		Model:  e.model,
		Prompt: e.prompts.BuildReplyPrompt(input),
	})
	if err != nil {
		logger.Error("quick reply generation failed", err, logger.Fields{"model": e.model})
		return apologyError
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text)
	}
	if text == "" {
		logger.Warn("quick reply came back empty", logger.Fields{"model": e.model})
		return apologyNotUnderstood
	}

	e.replies.put(input, text)
	return text
}

// QuickReplyStream is the streaming variant of QuickReply. Deltas are pushed
// through the callback as the provider produces them; a cache hit is replayed
// as a single delta without an external call. The assembled reply text is
// returned either way.
func (e *Engine) QuickReplyStream(ctx context.Context, input string, callback llm.StreamCallback) string {
	if text, ok := e.replies.get(input); ok {
		callback(llm.StreamEvent{Type: llm.StreamEventTextDelta, Text: text})
		callback(llm.StreamEvent{Type: llm.StreamEventCompleted})
		return text
	}

	resp, err := e.provider.GenerateStream(ctx, &llm.GenerationRequest{
		Model:  e.model,
		Prompt: e.prompts.BuildReplyPrompt(input),
	}, callback)
	if err != nil {
		logger.Error("quick reply stream failed", err, logger.Fields{"model": e.model})
		callback(llm.StreamEvent{Type: llm.StreamEventTextDelta, Text: apologyError})
		callback(llm.StreamEvent{Type: llm.StreamEventCompleted})
		return apologyError
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text)
	}
	if text == "" {
		return apologyNotUnderstood
	}

	e.replies.put(input, text)
	return text
}

type replyEntry struct {
	text     string
	storedAt time.Time
}

// replyCache is a process-wide TTL cache with lazy expiry on read.
type replyCache struct {
	mu      sync.Mutex
	entries map[string]replyEntry
	ttl     time.Duration
	now     func() time.Time
}

func newReplyCache(ttl time.Duration) *replyCache {
	return &replyCache{
		entries: make(map[string]replyEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *replyCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return entry.text, true
}

func (c *replyCache) put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = replyEntry{text: text, storedAt: c.now()}
}
