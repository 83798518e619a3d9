package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test implementation of the Provider interface
type MockProvider struct {
	name               string
	generateFunc       func(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)
	generateStreamFunc func(ctx context.Context, request *GenerationRequest, callback StreamCallback) (*GenerationResponse, error)
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &GenerationResponse{}, nil
}

func (m *MockProvider) GenerateStream(
	ctx context.Context, request *GenerationRequest, callback StreamCallback,
) (*GenerationResponse, error) {
	if m.generateStreamFunc != nil {
		return m.generateStreamFunc(ctx, request, callback)
	}
	return &GenerationResponse{}, nil
}

func TestProviderInterface(t *testing.T) {
	mock := &MockProvider{
		name: "mock",
	}

	assert.Equal(t, "mock", mock.Name())
}

func TestMockProviderGenerate(t *testing.T) {
	callCount := 0
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			callCount++
			require.Equal(t, "test-model", request.Model)
			return &GenerationResponse{
				Text: `{"flow_consigliato": "Running"}`,
				Usage: &TokenUsage{
					InputTokens:  10,
					OutputTokens: 5,
					TotalTokens:  15,
				},
			}, nil
		},
	}

	resp, err := mock.Generate(context.Background(), &GenerationRequest{Model: "test-model"})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestStreamCallback(t *testing.T) {
	callCount := 0
	callback := func(event StreamEvent) error {
		callCount++
		assert.NotEmpty(t, event.Type)
		return nil
	}

	err := callback(StreamEvent{Type: StreamEventTextDelta, Text: "ciao"})
	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
}

func TestFactoryRequiresKeys(t *testing.T) {
	factory := NewProviderFactory("", "")

	_, err := factory.GetProvider(context.Background(), "gemini-2.0-flash-exp", "")
	assert.Error(t, err)

	_, err = factory.GetProvider(context.Background(), "gpt-4o", "")
	assert.Error(t, err)

	_, err = factory.GetProvider(context.Background(), "", "something-else")
	assert.Error(t, err)
}

func TestFactoryInfersOpenAIFromModel(t *testing.T) {
	factory := NewProviderFactory("sk-test", "")

	provider, err := factory.GetProvider(context.Background(), "gpt-4o-mini", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())
}

func TestFactoryExplicitProviderName(t *testing.T) {
	factory := NewProviderFactory("sk-test", "")

	provider, err := factory.GetProvider(context.Background(), "gemini-2.0-flash-exp", "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())
}
