// Package openai implements domain.RecordExtractor with an OpenAI chat model.
// The model only locates model cards on the page; pricing, category and
// identifier rules are applied by domain.NewRecord so every extractor yields
// records with the same shape.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/observability"
)

const systemPrompt = `You read the markdown of the Fireworks AI model catalogue.
List every model card on the page. For each card return its display name,
the pricing text exactly as written (for example "$0.9/M Input • $0.9/M Output • 131072 Context"),
the type label shown on the card (LLM, Vision, Image, Audio, Embedding, Reranker or empty)
and the full https://fireworks.ai/models/... URL.
Respond with a JSON object of the form
{"models": [{"name": "...", "pricing": "...", "type": "...", "url": "..."}]}
and nothing else.`

// Extractor asks a chat model for the model cards on a catalogue page.
type Extractor struct {
	client       openai.Client
	model        string
	maxPageChars int
}

// NewExtractor creates a new OpenAI record extractor.
func NewExtractor(config Config) (*Extractor, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", domain.ErrConfiguration)
	}

	if config.Model == "" {
		config.Model = string(openai.ChatModelGPT4oMini)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	if config.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	return &Extractor{
		client:       openai.NewClient(opts...),
		model:        config.Model,
		maxPageChars: config.MaxPageChars,
	}, nil
}

// Extract returns the records the model found on page.
func (e *Extractor) Extract(ctx context.Context, page string) ([]domain.ModelRecord, error) {
	if strings.TrimSpace(page) == "" {
		return []domain.ModelRecord{}, nil
	}

	if e.maxPageChars > 0 && len(page) > e.maxPageChars {
		page = page[:e.maxPageChars]
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI API for extraction",
		observability.String("model", e.model),
		observability.Int("page_length", len(page)))

	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(page),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, &domain.UpstreamError{Source: "openai", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.UpstreamError{Source: "openai", Err: errors.New("no choices returned")}
	}

	logger.Debug("OpenAI API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)))

	return parseCards(resp.Choices[0].Message.Content)
}

// parseCards turns the model's JSON answer into deduplicated records.
func parseCards(content string) ([]domain.ModelRecord, error) {
	content = stripCodeFence(content)

	if !gjson.Valid(content) {
		return nil, &domain.UpstreamError{Source: "openai", Err: errors.New("response is not valid JSON")}
	}

	cards := gjson.Get(content, "models")
	if !cards.Exists() && gjson.Parse(content).IsArray() {
		cards = gjson.Parse(content)
	}

	records := make([]domain.ModelRecord, 0)
	cards.ForEach(func(_, card gjson.Result) bool {
		record, ok := domain.NewRecord(
			card.Get("name").String(),
			card.Get("pricing").String(),
			card.Get("type").String(),
			card.Get("url").String(),
		)
		if ok {
			records = append(records, record)
		}
		return true
	})

	return domain.Dedupe(records), nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string {
	return "openai"
}
