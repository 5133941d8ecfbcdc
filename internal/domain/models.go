package domain

import "time"

// Category classifies a scraped model.
type Category string

// Model categories recognised on the vendor catalogue.
const (
	CategoryGeneration Category = "generation"
	CategoryVision     Category = "vision"
	CategoryImage      Category = "image"
	CategoryAudio      Category = "audio"
	CategoryEmbedding  Category = "embedding"
	CategoryRerank     Category = "rerank"
)

// ModelRecord is one model extracted from the vendor catalogue.
//
// Exactly one pricing mode is populated: the InputPrice/OutputPrice pair or
// UnifiedPrice. All three are nil when the pricing fragment could not be
// parsed; such records convert to zero prices, which means "unknown", not free.
type ModelRecord struct {
	DisplayName   string   `json:"display_name"`
	Identifier    string   `json:"identifier"`
	InputPrice    *float64 `json:"input_unit_price,omitempty"`  // USD per million units
	OutputPrice   *float64 `json:"output_unit_price,omitempty"` // USD per million units
	UnifiedPrice  *float64 `json:"unified_unit_price,omitempty"`
	ContextLength *int     `json:"context_length,omitempty"`
	Category      Category `json:"category"`
}

// HasPrice reports whether any pricing mode was extracted.
func (r ModelRecord) HasPrice() bool {
	return r.UnifiedPrice != nil || r.InputPrice != nil || r.OutputPrice != nil
}

// PricingObject is the LiteLLM entry written for a record.
// Field order matches the upstream file's convention.
type PricingObject struct {
	MaxTokens          int     `json:"max_tokens"`
	MaxInputTokens     int     `json:"max_input_tokens"`
	MaxOutputTokens    int     `json:"max_output_tokens"`
	InputCostPerToken  float64 `json:"input_cost_per_token"`
	OutputCostPerToken float64 `json:"output_cost_per_token"`
	LiteLLMProvider    string  `json:"litellm_provider"`
	Mode               string  `json:"mode"`
}

// ReferenceDataset is one fetch of the upstream pricing document.
// Raw is kept byte-for-byte for patching; Keys lists its top-level keys in
// document order for diffing.
type ReferenceDataset struct {
	Raw  string
	Keys []string
}

// Submission is everything needed to open a pull request.
type Submission struct {
	Branch  string
	Title   string
	Body    string
	Content string
	Records []ModelRecord
}

// FailureKind classifies a failed run.
type FailureKind string

// Failure categories reported on RunResult.
const (
	FailureNone     FailureKind = ""
	FailureConfig   FailureKind = "config"
	FailureUpstream FailureKind = "upstream"
	FailureInternal FailureKind = "internal"
	FailureUnknown  FailureKind = "unknown"
)

// RunResult summarises one pipeline execution.
type RunResult struct {
	ID            string      `json:"id"`
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	Failure       FailureKind `json:"failure,omitempty"`
	ScrapedModels int         `json:"scraped_models"`
	MissingModels int         `json:"missing_models"`
	PRURL         string      `json:"pr_url,omitempty"`
	StartedAt     time.Time   `json:"started_at"`
	FinishedAt    time.Time   `json:"finished_at"`
}
