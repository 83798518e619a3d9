// Package engine turns transcribed text into music-mood recommendations.
package engine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/volumio-labs/volumio-api/internal/catalog"
	"github.com/volumio-labs/volumio-api/internal/llm"
	"github.com/volumio-labs/volumio-api/internal/logger"
	"github.com/volumio-labs/volumio-api/internal/metrics"
	"github.com/volumio-labs/volumio-api/internal/models"
	"github.com/volumio-labs/volumio-api/internal/observability"
	"github.com/volumio-labs/volumio-api/internal/prompt"
)

// Fallback recommendation values. The fallback category is a fixed design
// choice (low-arousal default), not data-derived.
const (
	fallbackCategory  = "Relaxing"
	fallbackBPMRange  = "60-80 BPM"
	fallbackReasoning = "fallback response due to an error"
)

// Engine sends analysis prompts to the generation provider and parses the
// reply into a Recommendation. Analyze never fails outward: every failure is
// converted into the deterministic fallback Recommendation.
type Engine struct {
	provider llm.Provider
	prompts  *prompt.Builder
	catalog  *catalog.Catalog
	model    string
	metrics  *metrics.Client
	replies  *replyCache
}

// New creates a recommendation engine. The metrics client may be nil.
func New(provider llm.Provider, prompts *prompt.Builder, cat *catalog.Catalog, model string, cw *metrics.Client) *Engine {
	return &Engine{
		provider: provider,
		prompts:  prompts,
		catalog:  cat,
		model:    model,
		metrics:  cw,
		replies:  newReplyCache(replyCacheTTL),
	}
}

// Analyze submits the text for analysis and returns a well-formed
// Recommendation with latency attached. All six semantic fields are populated
// under all circumstances, trading correctness for availability.
func (e *Engine) Analyze(ctx context.Context, text string) models.Recommendation {
	start := time.Now()
	promptText := e.prompts.BuildAnalysisPrompt(text)

	trace := observability.GetClient().StartTrace(ctx, "analyze", map[string]interface{}{
		"input_length": len(text),
	})
	defer trace.Finish()

	gen := trace.Generation("recommendation.generate", nil)
	resp, err := e.provider.Generate(ctx, &llm.GenerationRequest{
		Model:  e.model,
		Prompt: promptText,
	})
	gen.LogResult(e.model, promptText, resp)
	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		logger.Error("generation request failed", err, logger.Fields{"model": e.model})
		return e.fallback("generation service error", start)
	}
	gen.Finish()

	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		logger.Warn("empty response from model", logger.Fields{"model": e.model})
		return e.fallback("empty response from model", start)
	}

	e.recordTokenUsage(ctx, resp.Usage)

	cleaned := cleanResponse(resp.Text)
	var rec models.Recommendation
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		logger.Error("invalid JSON in model reply", err, logger.Fields{"model": e.model})
		return e.fallback("invalid response format", start)
	}

	// The model is instructed to stay inside the catalog but is not trusted
	// to: an out-of-taxonomy category takes the fallback path.
	if !e.catalog.Contains(rec.Category) {
		logger.Warn("model returned out-of-taxonomy category", logger.Fields{
			"model":    e.model,
			"category": rec.Category,
		})
		return e.fallback("unknown category: "+rec.Category, start)
	}

	rec.LatencyMs = time.Since(start).Milliseconds()
	e.recordAnalysis(start, true)
	return rec
}

// fallback builds the deterministic fallback Recommendation, with latency
// computed from the same start time as the failed analysis.
func (e *Engine) fallback(message string, start time.Time) models.Recommendation {
	e.recordAnalysis(start, false)
	return models.Recommendation{
		Category:         fallbackCategory,
		BPMRange:         fallbackBPMRange,
		Traits:           []string{"fallback_mode"},
		GenreExamples:    []string{"ambient"},
		PerceivedEmotion: "error: " + message,
		Reasoning:        fallbackReasoning,
		LatencyMs:        time.Since(start).Milliseconds(),
	}
}

func (e *Engine) recordAnalysis(start time.Time, success bool) {
	if e.metrics != nil {
		e.metrics.RecordAnalysisDuration(time.Since(start), success)
	}
}

func (e *Engine) recordTokenUsage(ctx context.Context, usage *llm.TokenUsage) {
	if usage == nil {
		return
	}
	if e.metrics != nil {
		e.metrics.RecordTokenUsage(e.model, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
	}
	sentryMetrics.RecordTokenUsage(ctx, e.model, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
}

// cleanResponse strips Markdown code-fence markers and surrounding whitespace
// from the model reply.
func cleanResponse(response string) string {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

var sentryMetrics = metrics.NewSentryMetrics()
