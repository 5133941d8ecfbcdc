package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates a required credential or endpoint is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrRunInProgress is returned when a run is triggered while another is active.
	// It is a rejection, not a failure.
	ErrRunInProgress = errors.New("sync run already in progress")

	// ErrPatchInvalid indicates the spliced document no longer parses.
	// This points at the patch builder itself, never at its input.
	ErrPatchInvalid = errors.New("patched document is not valid JSON")

	// ErrMalformedReference indicates the upstream document is not a JSON object.
	ErrMalformedReference = errors.New("reference document is malformed")
)

// UpstreamError represents a non-success response from an external collaborator.
type UpstreamError struct {
	Source     string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("upstream %s returned status %d", e.Source, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ClassifyFailure maps a run error onto its failure category.
func ClassifyFailure(err error) FailureKind {
	var upstream *UpstreamError

	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrPatchInvalid):
		return FailureInternal
	case errors.Is(err, ErrConfiguration):
		return FailureConfig
	case errors.As(err, &upstream), errors.Is(err, ErrMalformedReference):
		return FailureUpstream
	default:
		return FailureUnknown
	}
}
