// Package firecrawl implements domain.Scraper on the Firecrawl v2 scrape API.
package firecrawl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/httpclient"
	"github.com/davidbz/pricesync/internal/observability"
)

const source = "firecrawl"

type scrapeRequest struct {
	URL             string   `json:"url"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	Formats         []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// Client scrapes pages through Firecrawl.
type Client struct {
	http *resty.Client
}

// NewClient creates a new Firecrawl client.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: FIRECRAWL_API_KEY is required", domain.ErrConfiguration)
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.firecrawl.dev"
	}

	http := httpclient.New(source, baseURL, time.Duration(config.Timeout)*time.Second)
	http.SetAuthToken(config.APIKey)

	return &Client{http: http}, nil
}

// Scrape returns the markdown rendition of url. The whole page is requested
// because the catalogue lives outside the main-content region.
func (c *Client) Scrape(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", errors.New("url cannot be empty")
	}

	var body scrapeResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(scrapeRequest{
			URL:             url,
			OnlyMainContent: false,
			Formats:         []string{"markdown"},
		}).
		SetResult(&body).
		Post("/v2/scrape")
	if checkErr := httpclient.CheckResponse(source, res, err); checkErr != nil {
		return "", checkErr
	}

	if !body.Success {
		msg := body.Error
		if msg == "" {
			msg = "scrape reported failure"
		}
		return "", &domain.UpstreamError{Source: source, StatusCode: res.StatusCode(), Err: errors.New(msg)}
	}

	if body.Data.Markdown == "" {
		return "", &domain.UpstreamError{Source: source, StatusCode: res.StatusCode(), Err: errors.New("empty markdown")}
	}

	observability.FromContext(ctx).Info("page scraped",
		observability.String("url", url),
		observability.Int("markdown_length", len(body.Data.Markdown)))

	return body.Data.Markdown, nil
}
