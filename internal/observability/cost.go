package observability

import "github.com/volumio-labs/volumio-api/internal/llm"

const tokensPerKilo = 1000.0

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the models we route to
var PricingTable = map[string]ModelPricing{
	// Gemini models
	"gemini-2.0-flash-exp": {
		InputPricePer1K:  0.0001,
		OutputPricePer1K: 0.0004,
	},
	"gemini-2.5-flash": {
		InputPricePer1K:  0.0003,
		OutputPricePer1K: 0.0025,
	},
	// OpenAI models
	"gpt-4o": {
		InputPricePer1K:  0.005,
		OutputPricePer1K: 0.015,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  0.00015,
		OutputPricePer1K: 0.0006,
	},
}

// CalculateCost returns the cost in USD for one generation call, or 0 when the
// model is not in the pricing table.
func CalculateCost(model string, usage *llm.TokenUsage) float64 {
	if usage == nil {
		return 0
	}
	pricing, ok := PricingTable[model]
	if !ok {
		return 0
	}
	inputCost := float64(usage.InputTokens) / tokensPerKilo * pricing.InputPricePer1K
	outputCost := float64(usage.OutputTokens) / tokensPerKilo * pricing.OutputPricePer1K
	return inputCost + outputCost
}
