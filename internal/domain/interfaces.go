package domain

import "context"

// Scraper fetches a page and returns its markdown rendition.
type Scraper interface {
	// Scrape returns the full page content, boilerplate included.
	Scrape(ctx context.Context, url string) (string, error)
}

// RecordExtractor turns scraped page text into model records.
type RecordExtractor interface {
	// Extract returns records deduplicated by identifier. An empty result is not an error.
	Extract(ctx context.Context, page string) ([]ModelRecord, error)
}

// ReferenceSource fetches the upstream pricing document.
type ReferenceSource interface {
	// Fetch returns the raw document and its keys from a single request.
	Fetch(ctx context.Context) (*ReferenceDataset, error)
}

// Submitter publishes a patched document, typically as a pull request.
type Submitter interface {
	// Submit returns the URL of the created pull request.
	Submit(ctx context.Context, sub *Submission) (string, error)
}

// RunLock guards against concurrent runs.
type RunLock interface {
	// TryAcquire returns false without blocking when the lock is held.
	TryAcquire(ctx context.Context) (bool, error)

	// Release frees the lock.
	Release(ctx context.Context) error
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
