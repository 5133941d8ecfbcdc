package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricesync/internal/config"
	"github.com/davidbz/pricesync/internal/domain"
	httpapi "github.com/davidbz/pricesync/internal/http"
	"github.com/davidbz/pricesync/internal/http/middleware"
	"github.com/davidbz/pricesync/internal/mocks"
)

const reference = `{
    "fireworks_ai/accounts/fireworks/models/llama-v3": {"max_tokens": 8192}
}
`

type fixture struct {
	scraper   *mocks.MockScraper
	extractor *mocks.MockRecordExtractor
	reference *mocks.MockReferenceSource
	submitter *mocks.MockSubmitter
	lock      *domain.MemoryLock
	orch      *domain.Orchestrator
	handler   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		scraper:   mocks.NewMockScraper(t),
		extractor: mocks.NewMockRecordExtractor(t),
		reference: mocks.NewMockReferenceSource(t),
		submitter: mocks.NewMockSubmitter(t),
		lock:      domain.NewMemoryLock(),
	}

	f.orch = domain.NewOrchestrator(
		&domain.SyncConfig{TargetURL: "https://fireworks.ai/models", BranchPrefix: "add-fireworks-models"},
		f.scraper, f.extractor, f.reference, f.submitter, f.lock, nil, domain.NewState(),
	)

	server := httpapi.NewServer(
		&config.ServerConfig{Port: 0, ReadTimeout: 5, WriteTimeout: 5},
		httpapi.NewHandler(f.orch),
		middleware.Trace(),
	)
	f.handler = server.Routes()

	return f
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHandleRoot(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	require.Equal(t, "pricesync", body["name"])
	require.Contains(t, body["endpoints"], "/trigger")

	require.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/nope").Code)
}

func TestHandleHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NotEmpty(t, w.Header().Get("X-Request-Id"))
	require.Equal(t, map[string]any{"status": "healthy"}, decode(t, w))
}

func TestHandleStatus_Idle(t *testing.T) {
	f := newFixture(t)
	f.orch.State().SetSchedule(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), 24*time.Hour)

	w := f.do(http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	require.Equal(t, "idle", body["status"])
	require.Equal(t, false, body["is_running"])
	require.Nil(t, body["last_run"])
	require.Nil(t, body["last_result"])
	require.Equal(t, "2025-06-01T12:00:00Z", body["next_scheduled_run"])
	require.InDelta(t, 24.0, body["schedule_interval_hours"], 0.0001)
}

func TestHandleTrigger_Success(t *testing.T) {
	f := newFixture(t)

	f.scraper.EXPECT().Scrape(mock.Anything, "https://fireworks.ai/models").Return("page", nil)
	f.extractor.EXPECT().Extract(mock.Anything, "page").Return([]domain.ModelRecord{
		{DisplayName: "Kimi K2", Identifier: "kimi-k2-instruct", Category: domain.CategoryGeneration},
	}, nil)
	f.reference.EXPECT().Fetch(mock.Anything).Return(&domain.ReferenceDataset{
		Raw:  reference,
		Keys: []string{"fireworks_ai/accounts/fireworks/models/llama-v3"},
	}, nil)
	f.submitter.EXPECT().Submit(mock.Anything, mock.Anything).Return("https://github.com/BerriAI/litellm/pull/7", nil)

	w := f.do(http.MethodPost, "/trigger")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, "https://github.com/BerriAI/litellm/pull/7", body["pr_url"])
	require.InDelta(t, 1.0, body["missing_models"], 0.0001)

	status := decode(t, f.do(http.MethodGet, "/status"))
	require.NotNil(t, status["last_run"])
	require.NotNil(t, status["last_result"])
}

func TestHandleTrigger_Conflict(t *testing.T) {
	f := newFixture(t)

	acquired, err := f.lock.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, acquired)

	w := f.do(http.MethodPost, "/trigger")
	require.Equal(t, http.StatusConflict, w.Code)

	body := decode(t, w)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["message"], "already in progress")
}

func TestHandleTrigger_FailureStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"upstream", &domain.UpstreamError{Source: "firecrawl", StatusCode: 429}, http.StatusBadGateway},
		{"config", domain.ErrConfiguration, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.scraper.EXPECT().Scrape(mock.Anything, mock.Anything).Return("", tt.err)

			w := f.do(http.MethodPost, "/trigger")
			require.Equal(t, tt.status, w.Code)

			body := decode(t, w)
			require.Equal(t, false, body["success"])
			require.Equal(t, tt.name, body["failure"])
		})
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/trigger")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Contains(t, w.Header().Get("Allow"), http.MethodPost)

	require.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodPost, "/status").Code)
	require.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/status/extra").Code)
}

func TestHandleTrigger_ClientDisconnectDoesNotCancelRun(t *testing.T) {
	f := newFixture(t)

	var runCtx context.Context
	f.scraper.EXPECT().Scrape(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ string) (string, error) {
			runCtx = ctx
			return "page", nil
		})
	f.extractor.EXPECT().Extract(mock.Anything, "page").Return(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/trigger", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, runCtx.Err())

	acquired, err := f.lock.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestHandleTrigger_LockBackendFailure(t *testing.T) {
	state := domain.NewState()
	orch := domain.NewOrchestrator(
		&domain.SyncConfig{TargetURL: "https://fireworks.ai/models"},
		mocks.NewMockScraper(t), mocks.NewMockRecordExtractor(t),
		mocks.NewMockReferenceSource(t), mocks.NewMockSubmitter(t),
		failingLock{}, nil, state,
	)
	server := httpapi.NewServer(&config.ServerConfig{ReadTimeout: 5, WriteTimeout: 5}, httpapi.NewHandler(orch), nil)

	w := httptest.NewRecorder()
	server.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/trigger", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)

	body := decode(t, w)
	require.Equal(t, "upstream", body["failure"])

	require.NotNil(t, state.Snapshot().LastResult)
}

type failingLock struct{}

func (failingLock) TryAcquire(context.Context) (bool, error) {
	return false, errors.New("dial tcp: connection refused")
}

func (failingLock) Release(context.Context) error { return nil }
