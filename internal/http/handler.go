package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/observability"
)

const (
	serviceName    = "pricesync"
	serviceVersion = "1.0.0"
)

// SyncService is what the HTTP surface needs from the orchestrator.
type SyncService interface {
	RunOnce(ctx context.Context) (*domain.RunResult, error)
	State() *domain.State
}

// Handler handles HTTP requests.
type Handler struct {
	sync SyncService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(sync SyncService) *Handler {
	return &Handler{
		sync: sync,
	}
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status                string            `json:"status"`
	IsRunning             bool              `json:"is_running"`
	LastRun               *time.Time        `json:"last_run"`
	LastResult            *domain.RunResult `json:"last_result"`
	NextScheduledRun      *time.Time        `json:"next_scheduled_run"`
	ScheduleIntervalHours float64           `json:"schedule_interval_hours"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleRoot describes the service and its endpoints.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"version": serviceVersion,
		"endpoints": map[string]string{
			"/status":  "Get sync status and schedule",
			"/trigger": "POST to run the sync immediately",
			"/health":  "Health check",
		},
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// HandleStatus reports whether a run is active, the last outcome and the next scheduled run.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.sync.State().Snapshot()

	writeJSON(r.Context(), w, http.StatusOK, StatusResponse{
		Status:                snap.Status(),
		IsRunning:             snap.Running,
		LastRun:               snap.LastRun,
		LastResult:            snap.LastResult,
		NextScheduledRun:      snap.NextRun,
		ScheduleIntervalHours: snap.Interval.Hours(),
	})
}

// HandleTrigger runs the pipeline synchronously and returns its result.
// The run outlives the request: a client disconnect does not cancel it.
func (h *Handler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	logger := observability.FromContext(ctx)

	logger.Info("sync run triggered")

	result, err := h.sync.RunOnce(ctx)
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		writeJSON(ctx, w, http.StatusConflict, errorResponse{
			Success: false,
			Message: "A sync run is already in progress. Check /status for progress.",
		})
	case result == nil && err != nil:
		logger.Error("sync run could not start", observability.Error(err))
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			Success: false,
			Message: err.Error(),
		})
	case err != nil:
		writeJSON(ctx, w, statusForFailure(result.Failure), result)
	default:
		writeJSON(ctx, w, http.StatusOK, result)
	}
}

func statusForFailure(kind domain.FailureKind) int {
	if kind == domain.FailureUpstream {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(ctx).Warn("failed to encode response", observability.Error(err))
	}
}
