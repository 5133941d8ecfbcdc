package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/pricesync/internal/config"
	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/extractor/openai"
	"github.com/davidbz/pricesync/internal/extractor/registry"
	"github.com/davidbz/pricesync/internal/firecrawl"
	"github.com/davidbz/pricesync/internal/github"
	"github.com/davidbz/pricesync/internal/http"
	"github.com/davidbz/pricesync/internal/http/middleware"
	"github.com/davidbz/pricesync/internal/litellm"
	"github.com/davidbz/pricesync/internal/lock/redis"
	"github.com/davidbz/pricesync/internal/observability"
	"github.com/davidbz/pricesync/internal/scheduler"
)

// containerOptions changes how the container is assembled.
type containerOptions struct {
	// dryRun swaps the GitHub submitter for one writing to dryRunOut.
	dryRun    bool
	dryRunOut io.Writer
}

func buildContainer(opts containerOptions) (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor any
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", observability.InitLogger},
		{"event bus", func(logger *zap.Logger) domain.EventPublisher {
			return observability.NewEventBus(logger)
		}},

		// Pipeline collaborators
		{"scraper", func(cfg *firecrawl.Config) (domain.Scraper, error) {
			return firecrawl.NewClient(*cfg)
		}},
		{"record extractor", provideExtractor},
		{"reference source", func(cfg *litellm.Config) (domain.ReferenceSource, error) {
			return litellm.NewSource(*cfg)
		}},
		{"submitter", func(cfg *github.Config) (domain.Submitter, error) {
			if opts.dryRun {
				return domain.NewDryRunSubmitter(opts.dryRunOut), nil
			}
			return github.NewSubmitter(*cfg)
		}},
		{"run lock", provideRunLock},

		// Domain Services
		{"state", domain.NewState},
		{"orchestrator", domain.NewOrchestrator},
		{"scheduler", func(cfg *scheduler.Config, orch *domain.Orchestrator) (*scheduler.Scheduler, error) {
			return scheduler.New(*cfg, orch, orch.State())
		}},

		// HTTP Layer
		{"sync service", func(orch *domain.Orchestrator) http.SyncService { return orch }},
		{"middleware", middleware.BuildMiddlewareChain},
		{"HTTP handler", http.NewHandler},
		{"HTTP server", http.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	// InitLogger installs the logger process-wide; build it before anything logs.
	if err := container.Invoke(func(*zap.Logger) {}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", dig.RootCause(err))
	}

	return container, nil
}

func provideExtractor(cfg *config.ExtractorConfig) (domain.RecordExtractor, error) {
	reg := registry.NewRegistry()

	if err := reg.Register(domain.NewMarkdownExtractor()); err != nil {
		return nil, err
	}

	if cfg.Strategy == config.ExtractorOpenAI {
		extractor, err := openai.NewExtractor(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		if err = reg.Register(extractor); err != nil {
			return nil, err
		}
	}

	strategy := cfg.Strategy
	if strategy == "" {
		strategy = config.ExtractorMarkdown
	}

	return reg.Get(context.Background(), strategy)
}

func provideRunLock(cfg *config.LockConfig) (domain.RunLock, error) {
	switch cfg.Backend {
	case config.LockRedis:
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redis.NewLock(client, cfg.Redis.Key, time.Duration(cfg.Redis.TTL)*time.Second)
	case config.LockMemory, "":
		return domain.NewMemoryLock(), nil
	default:
		return nil, fmt.Errorf("%w: unknown lock backend %q", domain.ErrConfiguration, cfg.Backend)
	}
}
