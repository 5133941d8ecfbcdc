// Package httpclient builds the resty clients used for upstream calls.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/observability"
)

const userAgent = "pricesync/1.0 (+https://github.com/davidbz/pricesync)"

type startedAtKey struct{}

// New returns a resty client with request logging attached.
// source names the upstream in logs and in UpstreamError values.
func New(source, baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetHeader("User-Agent", userAgent)

	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx := context.WithValue(req.Context(), startedAtKey{}, time.Now())
		req.SetContext(ctx)

		observability.FromContext(ctx).Debug("upstream request started",
			observability.String("source", source),
			observability.String("method", req.Method),
			observability.String("url", req.URL))
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		ctx := res.Request.Context()

		fields := []observability.Field{
			observability.String("source", source),
			observability.String("method", res.Request.Method),
			observability.String("url", res.Request.URL),
			observability.Int("status", res.StatusCode()),
			observability.Int("bytes", len(res.Body())),
		}
		if started, ok := ctx.Value(startedAtKey{}).(time.Time); ok {
			fields = append(fields, observability.Duration("duration", time.Since(started)))
		}

		observability.FromContext(ctx).Debug("upstream request completed", fields...)
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		observability.FromContext(req.Context()).Warn("upstream request failed",
			observability.String("source", source),
			observability.String("method", req.Method),
			observability.String("url", req.URL),
			observability.Error(err))
	})

	return client
}

// CheckResponse converts a transport error or non-2xx response into an
// *domain.UpstreamError.
func CheckResponse(source string, res *resty.Response, err error) error {
	if err != nil {
		return &domain.UpstreamError{Source: source, Err: err}
	}

	if res.IsError() || res.StatusCode() < 200 || res.StatusCode() > 299 {
		return &domain.UpstreamError{
			Source:     source,
			StatusCode: res.StatusCode(),
			Body:       truncate(res.Body()),
		}
	}

	return nil
}

const maxErrorBody = 2048

func truncate(body []byte) []byte {
	if len(body) <= maxErrorBody {
		return body
	}
	return body[:maxErrorBody]
}
