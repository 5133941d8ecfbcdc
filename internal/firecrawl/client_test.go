package firecrawl_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/firecrawl"
)

func newClient(t *testing.T, handler http.HandlerFunc) *firecrawl.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := firecrawl.NewClient(firecrawl.Config{APIKey: "fc-test", BaseURL: server.URL, Timeout: 5})
	require.NoError(t, err)

	return client
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	client, err := firecrawl.NewClient(firecrawl.Config{BaseURL: "https://api.firecrawl.dev"})

	require.ErrorIs(t, err, domain.ErrConfiguration)
	require.Nil(t, client)
}

func TestClient_Scrape(t *testing.T) {
	var received map[string]any

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/scrape", r.URL.Path)
		require.Equal(t, "Bearer fc-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": {"markdown": "# Models\n[**Kimi**](https://fireworks.ai/models/fireworks/kimi)"}}`))
	})

	page, err := client.Scrape(context.Background(), "https://fireworks.ai/models")
	require.NoError(t, err)
	require.Contains(t, page, "# Models")

	require.Equal(t, "https://fireworks.ai/models", received["url"])
	require.Equal(t, false, received["onlyMainContent"])
	require.Equal(t, []any{"markdown"}, received["formats"])
}

func TestClient_Scrape_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"payment required", http.StatusPaymentRequired, `{"success": false, "error": "Insufficient credits"}`},
		{"server error", http.StatusBadGateway, `upstream down`},
		{"success false", http.StatusOK, `{"success": false, "error": "blocked"}`},
		{"empty markdown", http.StatusOK, `{"success": true, "data": {"markdown": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			page, err := client.Scrape(context.Background(), "https://fireworks.ai/models")
			require.Error(t, err)
			require.Empty(t, page)

			var upstream *domain.UpstreamError
			require.True(t, errors.As(err, &upstream))
			require.Equal(t, "firecrawl", upstream.Source)
			require.Equal(t, tt.status, upstream.StatusCode)
		})
	}
}

func TestClient_Scrape_EmptyURL(t *testing.T) {
	client, err := firecrawl.NewClient(firecrawl.Config{APIKey: "fc-test"})
	require.NoError(t, err)

	_, err = client.Scrape(context.Background(), "")
	require.Error(t, err)
}
