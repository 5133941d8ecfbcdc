package github

// Config contains pull request submission settings.
type Config struct {
	Token      string `env:"GITHUB_TOKEN"`
	BaseURL    string `env:"GITHUB_API_URL"     envDefault:"https://api.github.com/"`
	Owner      string `env:"GITHUB_OWNER"       envDefault:"BerriAI"`
	Repo       string `env:"GITHUB_REPO"        envDefault:"litellm"`
	BaseBranch string `env:"GITHUB_BASE_BRANCH" envDefault:"main"`
	FilePath   string `env:"GITHUB_FILE_PATH"   envDefault:"model_prices_and_context_window.json"`
}
