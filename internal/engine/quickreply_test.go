package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumio-labs/volumio-api/internal/llm"
)

func TestQuickReplyCachesWithinWindow(t *testing.T) {
	callCount := 0
	eng := newTestEngine(&mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			callCount++
			return &llm.GenerationResponse{Text: "Certo, metto subito la musica!"}, nil
		},
	})

	first := eng.QuickReply(context.Background(), "metti musica")
	second := eng.QuickReply(context.Background(), "metti musica")

	assert.Equal(t, "Certo, metto subito la musica!", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, callCount, "second call within the window must hit the cache")
}

func TestQuickReplyDistinctInputsAreDistinctEntries(t *testing.T) {
	callCount := 0
	eng := newTestEngine(&mockProvider{
		generateFunc: func(_ context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			callCount++
			return &llm.GenerationResponse{Text: "risposta " + request.Prompt[len(request.Prompt)-1:]}, nil
		},
	})

	eng.QuickReply(context.Background(), "domanda 1")
	eng.QuickReply(context.Background(), "domanda 2")
	eng.QuickReply(context.Background(), "domanda 1")

	assert.Equal(t, 2, callCount)
}

func TestQuickReplyExpiredEntryRefetches(t *testing.T) {
	callCount := 0
	eng := newTestEngine(&mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			callCount++
			return &llm.GenerationResponse{Text: "ciao"}, nil
		},
	})

	eng.QuickReply(context.Background(), "saluta")

	// Age the entry past the freshness window.
	eng.replies.mu.Lock()
	entry := eng.replies.entries["saluta"]
	entry.storedAt = entry.storedAt.Add(-time.Hour - time.Minute)
	eng.replies.entries["saluta"] = entry
	eng.replies.mu.Unlock()

	eng.QuickReply(context.Background(), "saluta")
	assert.Equal(t, 2, callCount, "expired entry must trigger a fresh call")
}

func TestQuickReplyErrorApologyNotCached(t *testing.T) {
	callCount := 0
	eng := newTestEngine(&mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			callCount++
			return nil, errors.New("upstream down")
		},
	})

	first := eng.QuickReply(context.Background(), "metti musica")
	second := eng.QuickReply(context.Background(), "metti musica")

	assert.Equal(t, apologyError, first)
	assert.Equal(t, apologyError, second)
	assert.Equal(t, 2, callCount, "failures must not populate the cache")
}

func TestQuickReplyEmptyReplyApology(t *testing.T) {
	eng := newTestEngine(fixedReply("  "))

	reply := eng.QuickReply(context.Background(), "metti musica")
	assert.Equal(t, apologyNotUnderstood, reply)

	_, cached := eng.replies.get("metti musica")
	assert.False(t, cached)
}

func TestQuickReplyStreamEmitsDeltas(t *testing.T) {
	eng := newTestEngine(&mockProvider{
		generateStreamFunc: func(_ context.Context, _ *llm.GenerationRequest, callback llm.StreamCallback) (*llm.GenerationResponse, error) {
			_ = callback(llm.StreamEvent{Type: llm.StreamEventStarted})
			_ = callback(llm.StreamEvent{Type: llm.StreamEventTextDelta, Text: "Certo, "})
			_ = callback(llm.StreamEvent{Type: llm.StreamEventTextDelta, Text: "subito!"})
			_ = callback(llm.StreamEvent{Type: llm.StreamEventCompleted})
			return &llm.GenerationResponse{Text: "Certo, subito!"}, nil
		},
	})

	var deltas []string
	reply := eng.QuickReplyStream(context.Background(), "metti musica", func(event llm.StreamEvent) error {
		if event.Type == llm.StreamEventTextDelta {
			deltas = append(deltas, event.Text)
		}
		return nil
	})

	assert.Equal(t, "Certo, subito!", reply)
	assert.Equal(t, []string{"Certo, ", "subito!"}, deltas)
}

func TestQuickReplyStreamServesCacheWithoutProviderCall(t *testing.T) {
	streamCalls := 0
	eng := newTestEngine(&mockProvider{
		generateStreamFunc: func(_ context.Context, _ *llm.GenerationRequest, callback llm.StreamCallback) (*llm.GenerationResponse, error) {
			streamCalls++
			_ = callback(llm.StreamEvent{Type: llm.StreamEventTextDelta, Text: "ciao"})
			_ = callback(llm.StreamEvent{Type: llm.StreamEventCompleted})
			return &llm.GenerationResponse{Text: "ciao"}, nil
		},
	})

	first := eng.QuickReplyStream(context.Background(), "saluta", func(llm.StreamEvent) error { return nil })
	require.Equal(t, "ciao", first)
	require.Equal(t, 1, streamCalls)

	var events []llm.StreamEvent
	second := eng.QuickReplyStream(context.Background(), "saluta", func(event llm.StreamEvent) error {
		events = append(events, event)
		return nil
	})

	assert.Equal(t, "ciao", second)
	assert.Equal(t, 1, streamCalls, "cache hit must not reach the provider")
	require.Len(t, events, 2)
	assert.Equal(t, llm.StreamEventTextDelta, events[0].Type)
	assert.Equal(t, "ciao", events[0].Text)
	assert.Equal(t, llm.StreamEventCompleted, events[1].Type)
}

func TestQuickReplyStreamSharesCacheWithQuickReply(t *testing.T) {
	generateCalls := 0
	eng := newTestEngine(&mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			generateCalls++
			return &llm.GenerationResponse{Text: "ciao"}, nil
		},
	})

	eng.QuickReply(context.Background(), "saluta")
	reply := eng.QuickReplyStream(context.Background(), "saluta", func(llm.StreamEvent) error { return nil })

	assert.Equal(t, "ciao", reply)
	assert.Equal(t, 1, generateCalls)
}
