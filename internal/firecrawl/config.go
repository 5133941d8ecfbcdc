package firecrawl

// Config contains Firecrawl scrape provider configuration.
type Config struct {
	APIKey  string `env:"FIRECRAWL_API_KEY"`
	BaseURL string `env:"FIRECRAWL_BASE_URL" envDefault:"https://api.firecrawl.dev"`
	Timeout int    `env:"FIRECRAWL_TIMEOUT"  envDefault:"60"` // seconds
}
