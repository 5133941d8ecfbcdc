package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// DryRunSubmitter writes the patched document instead of opening a pull request.
type DryRunSubmitter struct {
	out io.Writer
}

// NewDryRunSubmitter creates a submitter that writes to out.
func NewDryRunSubmitter(out io.Writer) *DryRunSubmitter {
	return &DryRunSubmitter{out: out}
}

// Submit writes the submission content and returns a pseudo URL naming the branch.
func (d *DryRunSubmitter) Submit(_ context.Context, sub *Submission) (string, error) {
	if sub == nil {
		return "", errors.New("submission cannot be nil")
	}

	if _, err := io.WriteString(d.out, sub.Content); err != nil {
		return "", fmt.Errorf("failed to write dry-run output: %w", err)
	}

	return "dry-run://" + sub.Branch, nil
}
