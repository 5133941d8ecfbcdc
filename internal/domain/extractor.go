package domain

import (
	"context"
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled once, read-only
var (
	// A catalogue card renders as a bold title, a pricing fragment, an optional
	// label and the card's link, separated by markdown line breaks.
	modelBlockPattern = regexp.MustCompile(
		`\*\*([^*]+)\*\*[\\n\s]*([^\\]*(?:\$[^\\]+))[\\n\s]*(LLM|Vision|Image|Audio|Embedding|Reranker)?\]?\(?(https://fireworks\.ai/models/[^)\s]+)`,
	)
	modelURLPattern = regexp.MustCompile(`/models/[^/]+/([^/\)]+)`)
)

// MarkdownExtractor extracts model records from the catalogue page markdown.
type MarkdownExtractor struct{}

// NewMarkdownExtractor creates the default pattern-based extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

// Extract scans the page for model blocks. Pages without any block yield an
// empty slice and no error.
func (e *MarkdownExtractor) Extract(_ context.Context, page string) ([]ModelRecord, error) {
	matches := modelBlockPattern.FindAllStringSubmatch(page, -1)

	records := make([]ModelRecord, 0, len(matches))
	for _, m := range matches {
		record, ok := NewRecord(m[1], m[2], m[3], m[4])
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return Dedupe(records), nil
}

// Name returns the extractor identifier.
func (e *MarkdownExtractor) Name() string {
	return "markdown"
}

// IdentifierFromURL returns the final path segment of a model URL such as
// https://fireworks.ai/models/fireworks/llama-v3p1-8b-instruct, or "".
func IdentifierFromURL(url string) string {
	m := modelURLPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// NewRecord builds a record from the parts of one catalogue block.
// It reports false when the link carries no identifier.
func NewRecord(name, pricing, label, url string) (ModelRecord, bool) {
	identifier := IdentifierFromURL(strings.TrimSpace(url))
	if identifier == "" {
		return ModelRecord{}, false
	}

	name = strings.TrimSpace(name)
	quote := ParsePricing(strings.TrimSpace(pricing))

	return ModelRecord{
		DisplayName:   name,
		Identifier:    identifier,
		InputPrice:    quote.InputPrice,
		OutputPrice:   quote.OutputPrice,
		UnifiedPrice:  quote.UnifiedPrice,
		ContextLength: quote.ContextLength,
		Category:      OverrideCategory(CategoryFromLabel(label), name, identifier),
	}, true
}

// Dedupe drops records whose identifier was already seen. First occurrence wins.
func Dedupe(records []ModelRecord) []ModelRecord {
	seen := make(map[string]struct{}, len(records))
	unique := make([]ModelRecord, 0, len(records))

	for _, r := range records {
		if _, ok := seen[r.Identifier]; ok {
			continue
		}
		seen[r.Identifier] = struct{}{}
		unique = append(unique, r)
	}

	return unique
}
