package domain

import "math"

const (
	unitsPerMillion = 1_000_000.0
	priceDecimals   = 12
)

// ToPricingObject converts a record into its LiteLLM entry.
//
// Per-million prices become per-unit prices rounded to 12 decimals. A unified
// price applies to both directions; a record without any price gets zeros.
// The mode is re-derived from the name and identifier even though extraction
// already applied the same override, so hand-built records convert the same way.
func ToPricingObject(r ModelRecord) PricingObject {
	var input, output float64

	if r.UnifiedPrice != nil {
		input = perUnit(*r.UnifiedPrice)
		output = input
	} else {
		if r.InputPrice != nil {
			input = perUnit(*r.InputPrice)
		}
		if r.OutputPrice != nil {
			output = perUnit(*r.OutputPrice)
		}
	}

	maxTokens := DefaultMaxTokens
	if r.ContextLength != nil && *r.ContextLength > 0 {
		maxTokens = *r.ContextLength
	}

	category := r.Category
	if category == "" {
		category = CategoryGeneration
	}

	return PricingObject{
		MaxTokens:          maxTokens,
		MaxInputTokens:     maxTokens,
		MaxOutputTokens:    maxTokens,
		InputCostPerToken:  input,
		OutputCostPerToken: output,
		LiteLLMProvider:    ProviderTag,
		Mode:               ModeFor(OverrideCategory(category, r.DisplayName, r.Identifier)),
	}
}

func perUnit(perMillion float64) float64 {
	return roundTo(perMillion/unitsPerMillion, priceDecimals)
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
