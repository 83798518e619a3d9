package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumio-labs/volumio-api/internal/catalog"
	"github.com/volumio-labs/volumio-api/internal/llm"
	"github.com/volumio-labs/volumio-api/internal/models"
	"github.com/volumio-labs/volumio-api/internal/prompt"
)

// mockProvider is a test implementation of the llm.Provider interface
type mockProvider struct {
	generateFunc       func(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error)
	generateStreamFunc func(ctx context.Context, request *llm.GenerationRequest, callback llm.StreamCallback) (*llm.GenerationResponse, error)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &llm.GenerationResponse{}, nil
}

func (m *mockProvider) GenerateStream(
	ctx context.Context, request *llm.GenerationRequest, callback llm.StreamCallback,
) (*llm.GenerationResponse, error) {
	if m.generateStreamFunc != nil {
		return m.generateStreamFunc(ctx, request, callback)
	}
	return &llm.GenerationResponse{}, nil
}

func newTestEngine(provider llm.Provider) *Engine {
	cat := catalog.Default()
	return New(provider, prompt.NewBuilder(cat), cat, "test-model", nil)
}

func fixedReply(text string) *mockProvider {
	return &mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{Text: text}, nil
		},
	}
}

func assertFallback(t *testing.T, rec models.Recommendation) {
	t.Helper()
	assert.Equal(t, "Relaxing", rec.Category)
	assert.Equal(t, "60-80 BPM", rec.BPMRange)
	assert.Equal(t, []string{"fallback_mode"}, rec.Traits)
	assert.Equal(t, []string{"ambient"}, rec.GenreExamples)
	assert.Contains(t, rec.PerceivedEmotion, "error: ")
	assert.Equal(t, "fallback response due to an error", rec.Reasoning)
	assert.GreaterOrEqual(t, rec.LatencyMs, int64(0))
}

func TestAnalyzeParsesFencedReply(t *testing.T) {
	eng := newTestEngine(fixedReply("```json\n" + `{
		"flow_consigliato": "Running",
		"bpm_range": "120-140 BPM",
		"caratteristiche": ["energica", "motivazionale"],
		"esempi_genere": ["electro", "drum and bass"],
		"percezione_emotiva": "voglia di muoversi",
		"reasoning": "input sportivo, serve ritmo alto"
	}` + "\n```"))

	rec := eng.Analyze(context.Background(), "voglio andare a correre")

	assert.Equal(t, "Running", rec.Category)
	assert.Equal(t, "120-140 BPM", rec.BPMRange)
	assert.Equal(t, []string{"energica", "motivazionale"}, rec.Traits)
	assert.Equal(t, []string{"electro", "drum and bass"}, rec.GenreExamples)
	assert.Equal(t, "voglia di muoversi", rec.PerceivedEmotion)
	assert.GreaterOrEqual(t, rec.LatencyMs, int64(0))
}

func TestAnalyzeParsesBareJSONReply(t *testing.T) {
	eng := newTestEngine(fixedReply(`{
		"flow_consigliato": "Relaxing",
		"bpm_range": "50-70 BPM",
		"caratteristiche": ["calma"],
		"esempi_genere": ["ambient"],
		"percezione_emotiva": "stanchezza",
		"reasoning": "giornata stressante, serve quiete"
	}`))

	rec := eng.Analyze(context.Background(), "ho avuto una giornata stressante")

	assert.Equal(t, "Relaxing", rec.Category)
	assert.Equal(t, "50-70 BPM", rec.BPMRange)
}

func TestAnalyzeSendsCatalogAndInput(t *testing.T) {
	var gotPrompt string
	provider := &mockProvider{
		generateFunc: func(_ context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			gotPrompt = request.Prompt
			require.Equal(t, "test-model", request.Model)
			return nil, errors.New("stop here")
		},
	}

	newTestEngine(provider).Analyze(context.Background(), "musica per cucinare")

	assert.Contains(t, gotPrompt, "Kitchen: (80-100 BPM)")
	assert.Contains(t, gotPrompt, "musica per cucinare")
}

func TestAnalyzeProviderErrorFallsBack(t *testing.T) {
	eng := newTestEngine(&mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return nil, errors.New("upstream down")
		},
	})

	assertFallback(t, eng.Analyze(context.Background(), "qualsiasi cosa"))
}

func TestAnalyzeEmptyReplyFallsBack(t *testing.T) {
	eng := newTestEngine(fixedReply("   \n  "))
	assertFallback(t, eng.Analyze(context.Background(), "test"))
}

func TestAnalyzeMalformedJSONFallsBack(t *testing.T) {
	eng := newTestEngine(fixedReply("Ecco la mia raccomandazione: musica rilassante!"))
	assertFallback(t, eng.Analyze(context.Background(), "test"))
}

func TestAnalyzeTruncatedJSONFallsBack(t *testing.T) {
	eng := newTestEngine(fixedReply(`{"flow_consigliato": "Running", "bpm_range":`))
	assertFallback(t, eng.Analyze(context.Background(), "test"))
}

func TestAnalyzeOutOfTaxonomyCategoryFallsBack(t *testing.T) {
	eng := newTestEngine(fixedReply(`{
		"flow_consigliato": "Partying",
		"bpm_range": "130-150 BPM",
		"caratteristiche": ["festosa"],
		"esempi_genere": ["dance"],
		"percezione_emotiva": "euforia",
		"reasoning": "voglia di festa"
	}`))

	rec := eng.Analyze(context.Background(), "stasera si festeggia")

	assertFallback(t, rec)
	assert.Contains(t, rec.PerceivedEmotion, "Partying")
}

func TestAnalyzeAwkwardInputsStillProduceFullRecommendation(t *testing.T) {
	eng := newTestEngine(&mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return nil, errors.New("always failing")
		},
	})

	for _, input := range []string{
		"",
		`testo con "virgolette" e \backslash`,
		"input\ncon\npiù\nrighe",
	} {
		rec := eng.Analyze(context.Background(), input)
		assertFallback(t, rec)
		assert.NotEmpty(t, rec.Category)
		assert.NotEmpty(t, rec.BPMRange)
		assert.NotEmpty(t, rec.Traits)
		assert.NotEmpty(t, rec.GenreExamples)
		assert.NotEmpty(t, rec.PerceivedEmotion)
		assert.NotEmpty(t, rec.Reasoning)
	}
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, cleanResponse("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, cleanResponse("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, cleanResponse(`  {"a": 1}  `))
	assert.Equal(t, `{"a": 1}`, cleanResponse(`{"a": 1}`))
}
