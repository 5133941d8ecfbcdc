// Package litellm fetches LiteLLM's model pricing document.
package litellm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/httpclient"
	"github.com/davidbz/pricesync/internal/observability"
)

const source = "litellm"

// Source implements domain.ReferenceSource with a plain GET of the raw file.
type Source struct {
	http *resty.Client
	url  string
}

// NewSource creates a new reference source.
func NewSource(config Config) (*Source, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("%w: LITELLM_JSON_URL is required", domain.ErrConfiguration)
	}

	return &Source{
		http: httpclient.New(source, "", time.Duration(config.Timeout)*time.Second),
		url:  config.URL,
	}, nil
}

// Fetch downloads the document once and returns it with its top-level keys.
// The body is kept byte-for-byte so the patch never rewrites existing entries.
func (s *Source) Fetch(ctx context.Context) (*domain.ReferenceDataset, error) {
	res, err := s.http.R().
		SetContext(ctx).
		Get(s.url)
	if checkErr := httpclient.CheckResponse(source, res, err); checkErr != nil {
		return nil, checkErr
	}

	raw := string(res.Body())
	keys, err := TopLevelKeys(raw)
	if err != nil {
		return nil, &domain.UpstreamError{Source: source, StatusCode: res.StatusCode(), Err: err}
	}

	observability.FromContext(ctx).Info("reference dataset fetched",
		observability.Int("bytes", len(raw)),
		observability.Int("keys", len(keys)))

	return &domain.ReferenceDataset{Raw: raw, Keys: keys}, nil
}

// TopLevelKeys returns the keys of a JSON object in document order.
// An empty object is valid and yields no keys.
func TopLevelKeys(doc string) ([]string, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedReference)
	}

	parsed := gjson.Parse(doc)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", domain.ErrMalformedReference)
	}

	keys := make([]string, 0)
	parsed.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})

	return keys, nil
}
