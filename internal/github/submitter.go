// Package github opens pull requests against the reference repository.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/observability"
)

const (
	source          = "github"
	maxRedirects    = 3
	branchRefPrefix = "refs/heads/"
)

// Submitter implements domain.Submitter with the GitHub REST API.
type Submitter struct {
	client *gh.Client
	config Config
}

// NewSubmitter creates a new GitHub submitter.
func NewSubmitter(config Config) (*Submitter, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("%w: GITHUB_TOKEN is required", domain.ErrConfiguration)
	}
	if config.Owner == "" || config.Repo == "" || config.FilePath == "" {
		return nil, fmt.Errorf("%w: repository owner, name and file path are required", domain.ErrConfiguration)
	}
	if config.BaseBranch == "" {
		config.BaseBranch = "main"
	}

	client := gh.NewClient(nil).WithAuthToken(config.Token)

	if config.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("%w: invalid GITHUB_API_URL: %w", domain.ErrConfiguration, err)
		}
		client.BaseURL = baseURL
	}

	return &Submitter{client: client, config: config}, nil
}

// Submit creates the branch, commits the patched file and opens the pull request.
func (s *Submitter) Submit(ctx context.Context, sub *domain.Submission) (string, error) {
	if sub == nil {
		return "", errors.New("submission cannot be nil")
	}

	logger := observability.FromContext(ctx).With(
		observability.String("repo", s.config.Owner+"/"+s.config.Repo),
		observability.String("branch", sub.Branch))

	base, resp, err := s.client.Repositories.GetBranch(ctx, s.config.Owner, s.config.Repo, s.config.BaseBranch, maxRedirects)
	if err != nil {
		return "", upstream(resp, fmt.Errorf("failed to get base branch %s: %w", s.config.BaseBranch, err))
	}

	baseSHA := base.GetCommit().GetSHA()
	if baseSHA == "" {
		return "", upstream(resp, fmt.Errorf("base branch %s has no head commit", s.config.BaseBranch))
	}

	_, resp, err = s.client.Git.CreateRef(ctx, s.config.Owner, s.config.Repo, &gh.Reference{
		Ref:    gh.String(branchRefPrefix + sub.Branch),
		Object: &gh.GitObject{SHA: gh.String(baseSHA)},
	})
	if err != nil {
		return "", upstream(resp, fmt.Errorf("failed to create branch: %w", err))
	}
	logger.Info("branch created", observability.String("base_sha", baseSHA))

	current, _, resp, err := s.client.Repositories.GetContents(ctx, s.config.Owner, s.config.Repo, s.config.FilePath,
		&gh.RepositoryContentGetOptions{Ref: sub.Branch})
	if err != nil {
		return "", upstream(resp, fmt.Errorf("failed to read %s: %w", s.config.FilePath, err))
	}
	if current == nil || current.GetSHA() == "" {
		return "", upstream(resp, fmt.Errorf("%s is not a file", s.config.FilePath))
	}

	_, resp, err = s.client.Repositories.UpdateFile(ctx, s.config.Owner, s.config.Repo, s.config.FilePath,
		&gh.RepositoryContentFileOptions{
			Message: gh.String(sub.Title),
			Content: []byte(sub.Content),
			SHA:     gh.String(current.GetSHA()),
			Branch:  gh.String(sub.Branch),
		})
	if err != nil {
		return "", upstream(resp, fmt.Errorf("failed to update %s: %w", s.config.FilePath, err))
	}
	logger.Info("file updated", observability.String("path", s.config.FilePath))

	pr, resp, err := s.client.PullRequests.Create(ctx, s.config.Owner, s.config.Repo, &gh.NewPullRequest{
		Title: gh.String(sub.Title),
		Head:  gh.String(sub.Branch),
		Base:  gh.String(s.config.BaseBranch),
		Body:  gh.String(sub.Body),
	})
	if err != nil {
		return "", upstream(resp, fmt.Errorf("failed to open pull request: %w", err))
	}

	logger.Info("pull request opened",
		observability.Int("number", pr.GetNumber()),
		observability.String("url", pr.GetHTMLURL()))

	return pr.GetHTMLURL(), nil
}

func upstream(resp *gh.Response, err error) error {
	upstreamErr := &domain.UpstreamError{Source: source, Err: err}
	if resp != nil && resp.Response != nil {
		upstreamErr.StatusCode = resp.StatusCode
	}
	return upstreamErr
}
