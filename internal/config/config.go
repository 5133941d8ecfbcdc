package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/extractor/openai"
	"github.com/davidbz/pricesync/internal/firecrawl"
	"github.com/davidbz/pricesync/internal/github"
	"github.com/davidbz/pricesync/internal/litellm"
	"github.com/davidbz/pricesync/internal/lock/redis"
	"github.com/davidbz/pricesync/internal/observability"
	"github.com/davidbz/pricesync/internal/scheduler"
)

// Extraction strategies.
const (
	ExtractorMarkdown = "markdown"
	ExtractorOpenAI   = "openai"
)

// Run lock backends.
const (
	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config represents the service configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Log       observability.LogConfig
	Sync      domain.SyncConfig
	Schedule  scheduler.Config
	Firecrawl firecrawl.Config
	LiteLLM   litellm.Config
	GitHub    github.Config
	Extractor ExtractorConfig
	Lock      LockConfig
}

// ServerConfig contains HTTP server settings.
// POST /trigger blocks for a whole run, hence the long write timeout.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8000"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"900"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// ExtractorConfig selects how records are pulled out of the scraped page.
type ExtractorConfig struct {
	Strategy string `env:"EXTRACTOR_STRATEGY" envDefault:"markdown"`
	OpenAI   openai.Config
}

// LockConfig selects the run lock backend.
type LockConfig struct {
	Backend string `env:"LOCK_BACKEND" envDefault:"memory"`
	Redis   redis.Config
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server    *ServerConfig
	CORS      *CORSConfig
	Log       *observability.LogConfig
	Sync      *domain.SyncConfig
	Schedule  *scheduler.Config
	Firecrawl *firecrawl.Config
	LiteLLM   *litellm.Config
	GitHub    *github.Config
	Extractor *ExtractorConfig
	Lock      *LockConfig
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Server:    &cfg.Server,
		CORS:      &cfg.CORS,
		Log:       &cfg.Log,
		Sync:      &cfg.Sync,
		Schedule:  &cfg.Schedule,
		Firecrawl: &cfg.Firecrawl,
		LiteLLM:   &cfg.LiteLLM,
		GitHub:    &cfg.GitHub,
		Extractor: &cfg.Extractor,
		Lock:      &cfg.Lock,
	}
}

// Validate reports every missing setting at once. GitHub credentials are only
// required when submit is true, so dry runs work without them.
func (c *Config) Validate(submit bool) error {
	var errs []error

	missing := func(name string) {
		errs = append(errs, fmt.Errorf("%w: %s is required", domain.ErrConfiguration, name))
	}

	if c.Firecrawl.APIKey == "" {
		missing("FIRECRAWL_API_KEY")
	}
	if c.LiteLLM.URL == "" {
		missing("LITELLM_JSON_URL")
	}
	if c.Sync.TargetURL == "" {
		missing("SYNC_TARGET_URL")
	}
	if submit && c.GitHub.Token == "" {
		missing("GITHUB_TOKEN")
	}

	switch c.Extractor.Strategy {
	case ExtractorMarkdown:
	case ExtractorOpenAI:
		if c.Extractor.OpenAI.APIKey == "" {
			missing("OPENAI_API_KEY")
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown EXTRACTOR_STRATEGY %q", domain.ErrConfiguration, c.Extractor.Strategy))
	}

	switch c.Lock.Backend {
	case LockMemory:
	case LockRedis:
		if c.Lock.Redis.URL == "" {
			missing("REDIS_URL")
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown LOCK_BACKEND %q", domain.ErrConfiguration, c.Lock.Backend))
	}

	if c.Schedule.Enabled && c.Schedule.Interval <= 0 {
		errs = append(errs, fmt.Errorf("%w: SCHEDULE_INTERVAL must be positive", domain.ErrConfiguration))
	}

	return errors.Join(errs...)
}
