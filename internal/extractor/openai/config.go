package openai

// Config holds configuration for the LLM-backed record extractor.
// Fields map to OpenAI SDK options the same way the chat provider does.
type Config struct {
	APIKey       string `env:"OPENAI_API_KEY"`
	BaseURL      string `env:"OPENAI_BASE_URL"             envDefault:"https://api.openai.com/v1"`
	Model        string `env:"EXTRACTOR_MODEL"             envDefault:"gpt-4o-mini"`
	Timeout      int    `env:"OPENAI_TIMEOUT"              envDefault:"120"`
	MaxRetries   int    `env:"OPENAI_MAX_RETRIES"          envDefault:"2"`
	MaxPageChars int    `env:"EXTRACTOR_MAX_PAGE_CHARS"    envDefault:"200000"`
}
