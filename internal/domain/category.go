package domain

import "strings"

// Vendor identity used for keys and provider tags in the reference dataset.
const (
	ProviderTag      = "fireworks_ai"
	ModelPathPrefix  = "accounts/fireworks/models/"
	DefaultMaxTokens = 4096
)

//nolint:gochecknoglobals // Read-only lookup tables
var (
	labelCategories = map[string]Category{
		"LLM":       CategoryGeneration,
		"Vision":    CategoryVision,
		"Image":     CategoryImage,
		"Audio":     CategoryAudio,
		"Embedding": CategoryEmbedding,
		"Reranker":  CategoryRerank,
	}

	categoryModes = map[Category]string{
		CategoryGeneration: "chat",
		CategoryVision:     "chat",
		CategoryImage:      "image_generation",
		CategoryAudio:      "audio_transcription",
		CategoryEmbedding:  "embedding",
		CategoryRerank:     "rerank",
	}
)

// CategoryFromLabel maps a catalogue label to a category. Unknown or empty
// labels fall back to generation.
func CategoryFromLabel(label string) Category {
	if c, ok := labelCategories[strings.TrimSpace(label)]; ok {
		return c
	}
	return CategoryGeneration
}

// OverrideCategory applies the keyword heuristics that take precedence over
// catalogue labels: rerank, then embedding, then speech transcription.
func OverrideCategory(detected Category, name, identifier string) Category {
	n := strings.ToLower(name)
	id := strings.ToLower(identifier)

	switch {
	case strings.Contains(n, "rerank") || strings.Contains(id, "rerank"):
		return CategoryRerank
	case strings.Contains(n, "embed") || strings.Contains(id, "embed"):
		return CategoryEmbedding
	case strings.Contains(n, "whisper") || strings.Contains(id, "asr"):
		return CategoryAudio
	default:
		return detected
	}
}

// ModeFor returns the LiteLLM mode for a category.
func ModeFor(c Category) string {
	if mode, ok := categoryModes[c]; ok {
		return mode
	}
	return "chat"
}

// NamespacedKey returns the reference dataset key for an identifier.
func NamespacedKey(identifier string) string {
	return ProviderTag + "/" + ModelPathPrefix + identifier
}
