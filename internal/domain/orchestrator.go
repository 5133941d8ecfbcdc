package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/pricesync/internal/observability"
)

const sampleLogSize = 5

// Run lifecycle event types.
const (
	EventRunStarted   = "run.started"
	EventRunCompleted = "run.completed"
	EventRunFailed    = "run.failed"
	EventRunRejected  = "run.rejected"
)

// SyncConfig contains pipeline settings.
type SyncConfig struct {
	TargetURL    string `env:"SYNC_TARGET_URL"    envDefault:"https://fireworks.ai/models"`
	BranchPrefix string `env:"SYNC_BRANCH_PREFIX" envDefault:"add-fireworks-models"`
}

// Orchestrator runs the scrape, diff and submit pipeline.
type Orchestrator struct {
	config    SyncConfig
	scraper   Scraper
	extractor RecordExtractor
	reference ReferenceSource
	submitter Submitter
	lock      RunLock
	events    EventPublisher
	state     *State
}

// NewOrchestrator creates a new orchestrator (DI constructor).
func NewOrchestrator(
	config *SyncConfig,
	scraper Scraper,
	extractor RecordExtractor,
	reference ReferenceSource,
	submitter Submitter,
	lock RunLock,
	events EventPublisher,
	state *State,
) *Orchestrator {
	if state == nil {
		state = NewState()
	}
	if lock == nil {
		lock = NewMemoryLock()
	}

	var cfg SyncConfig
	if config != nil {
		cfg = *config
	}

	return &Orchestrator{
		config:    cfg,
		scraper:   scraper,
		extractor: extractor,
		reference: reference,
		submitter: submitter,
		lock:      lock,
		events:    events,
		state:     state,
	}
}

// State returns the run state shared with the status surface.
func (o *Orchestrator) State() *State {
	return o.state
}

// RunOnce executes the pipeline a single time.
//
// When another run holds the lock it returns ErrRunInProgress and records
// nothing. Otherwise the returned result is always non-nil and is also stored
// as the last result; a failed run returns its error alongside the result.
// The lock is released even when ctx is cancelled mid-run.
func (o *Orchestrator) RunOnce(ctx context.Context) (*RunResult, error) {
	acquired, err := o.lock.TryAcquire(ctx)
	if err != nil {
		return o.lockFailure(ctx, err)
	}
	if !acquired {
		o.publish(ctx, EventRunRejected, nil)
		return nil, ErrRunInProgress
	}

	runID := observability.GenerateRunID()
	ctx = observability.WithRunID(ctx, runID)
	logger := observability.FromContext(ctx)

	result := &RunResult{
		ID:        runID,
		StartedAt: time.Now().UTC(),
	}

	o.state.begin()
	defer func() {
		result.FinishedAt = time.Now().UTC()
		o.state.finish(result)

		if releaseErr := o.lock.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			logger.Warn("failed to release run lock", observability.Error(releaseErr))
		}
	}()

	logger.Info("sync run started", observability.String("target_url", o.config.TargetURL))
	o.publish(ctx, EventRunStarted, map[string]interface{}{"target_url": o.config.TargetURL})

	if runErr := o.execute(ctx, result); runErr != nil {
		result.Success = false
		result.Failure = ClassifyFailure(runErr)
		result.Message = "sync run failed: " + runErr.Error()

		logger.Error("sync run failed",
			observability.String("failure", string(result.Failure)),
			observability.Error(runErr))
		o.publish(ctx, EventRunFailed, map[string]interface{}{
			"failure": string(result.Failure),
			"error":   runErr.Error(),
		})

		return result, runErr
	}

	result.Success = true
	logger.Info("sync run completed",
		observability.Int("scraped_models", result.ScrapedModels),
		observability.Int("missing_models", result.MissingModels),
		observability.String("pr_url", result.PRURL))
	o.publish(ctx, EventRunCompleted, map[string]interface{}{
		"scraped_models": result.ScrapedModels,
		"missing_models": result.MissingModels,
		"pr_url":         result.PRURL,
	})

	return result, nil
}

// lockFailure records a run that could not start because the lock backend
// failed, so the status surface shows it.
func (o *Orchestrator) lockFailure(ctx context.Context, lockErr error) (*RunResult, error) {
	err := &UpstreamError{Source: "run-lock", Err: lockErr}
	now := time.Now().UTC()
	result := &RunResult{
		ID:         observability.GenerateRunID(),
		StartedAt:  now,
		FinishedAt: now,
		Failure:    FailureUpstream,
		Message:    "sync run failed: could not acquire run lock: " + lockErr.Error(),
	}
	o.state.finish(result)

	observability.FromContext(ctx).Error("failed to acquire run lock", observability.Error(lockErr))
	o.publish(ctx, EventRunFailed, map[string]interface{}{
		"failure": string(result.Failure),
		"error":   lockErr.Error(),
	})

	return result, fmt.Errorf("failed to acquire run lock: %w", err)
}

func (o *Orchestrator) execute(ctx context.Context, result *RunResult) error {
	if o.scraper == nil || o.extractor == nil || o.reference == nil || o.submitter == nil {
		return fmt.Errorf("%w: pipeline collaborators not configured", ErrConfiguration)
	}

	// Step 1: scrape and extract.
	scrapeCtx := observability.WithStage(ctx, "scrape")
	page, err := o.scraper.Scrape(scrapeCtx, o.config.TargetURL)
	if err != nil {
		return fmt.Errorf("failed to scrape %s: %w", o.config.TargetURL, err)
	}

	records, err := o.extractor.Extract(scrapeCtx, page)
	if err != nil {
		return fmt.Errorf("failed to extract records: %w", err)
	}

	result.ScrapedModels = len(records)
	logger := observability.FromContext(scrapeCtx)

	if len(records) == 0 {
		logger.Warn("no models scraped, nothing to submit", observability.Int("page_length", len(page)))
		result.Message = "No models scraped from Fireworks AI"
		return nil
	}

	logger.Info("models scraped", observability.Int("count", len(records)))
	for _, r := range records[:min(sampleLogSize, len(records))] {
		logger.Debug("sample model",
			observability.String("name", r.DisplayName),
			observability.String("identifier", r.Identifier),
			observability.String("category", string(r.Category)))
	}

	// Step 2: diff against the reference dataset.
	diffCtx := observability.WithStage(ctx, "diff")
	dataset, err := o.reference.Fetch(diffCtx)
	if err != nil {
		return fmt.Errorf("failed to fetch reference dataset: %w", err)
	}
	if dataset == nil {
		return errors.New("reference source returned no dataset")
	}

	missing := FindMissing(records, dataset)
	result.MissingModels = len(missing)

	observability.FromContext(diffCtx).Info("compared with reference dataset",
		observability.Int("reference_keys", len(dataset.Keys)),
		observability.Int("missing_models", len(missing)))

	if len(missing) == 0 {
		result.Message = "All Fireworks models already exist in LiteLLM"
		return nil
	}

	// Step 3: patch and submit.
	patchCtx := observability.WithStage(ctx, "patch")
	content, err := AppendEntries(dataset.Raw, missing)
	if err != nil {
		return fmt.Errorf("failed to build patch: %w", err)
	}

	submitCtx := observability.WithStage(ctx, "submit")
	submission := &Submission{
		Branch:  BranchName(o.config.BranchPrefix, time.Now()),
		Title:   PullRequestTitle(missing),
		Body:    PullRequestBody(missing),
		Content: content,
		Records: missing,
	}

	observability.FromContext(patchCtx).Info("patch built",
		observability.String("branch", submission.Branch),
		observability.Int("bytes_added", len(content)-len(dataset.Raw)))

	prURL, err := o.submitter.Submit(submitCtx, submission)
	if err != nil {
		return fmt.Errorf("failed to submit pull request: %w", err)
	}

	result.PRURL = prURL
	result.Message = fmt.Sprintf("Created PR with %d new models", len(missing))

	return nil
}

func (o *Orchestrator) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if o.events == nil {
		return
	}
	o.events.Publish(ctx, eventType, data)
}
