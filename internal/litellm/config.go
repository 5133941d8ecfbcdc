package litellm

// Config contains reference dataset settings.
type Config struct {
	URL     string `env:"LITELLM_JSON_URL" envDefault:"https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"`
	Timeout int    `env:"LITELLM_TIMEOUT"  envDefault:"30"` // seconds
}
