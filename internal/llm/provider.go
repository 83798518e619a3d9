package llm

import "context"

// Provider defines the interface for text-generation providers.
// Providers return the full reply text; parsing and fallback handling belong
// to the caller, so both backends share one failure contract.
type Provider interface {
	// Generate submits the prompt as a single non-streaming request and
	// returns the full reply text.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// GenerateStream submits the prompt and delivers partial text chunks to
	// the callback; the returned response holds the concatenated text.
	GenerateStream(ctx context.Context, request *GenerationRequest, callback StreamCallback) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for one generation call.
type GenerationRequest struct {
	Model  string
	Prompt string
	// Optional system instruction; empty means none
	SystemPrompt string
}

// GenerationResponse contains the result from the model.
type GenerationResponse struct {
	Text  string
	Usage *TokenUsage
}

// TokenUsage reports token counts for one call, when the backend provides them.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// StreamCallback is called for each streaming event.
type StreamCallback func(event StreamEvent) error

// StreamEvent represents one event during streaming generation.
type StreamEvent struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// Stream event types.
const (
	StreamEventStarted   = "output_started"
	StreamEventTextDelta = "text_delta"
	StreamEventCompleted = "completed"
)
