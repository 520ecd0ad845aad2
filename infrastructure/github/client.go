// Package github fetches pull-request records from the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v66/github"

	"github.com/shipcheck/shipcheck/domain/history"
	"github.com/shipcheck/shipcheck/domain/service"
)

// PullRequestSource implements domain/service.PullSource against the GitHub
// REST API.
type PullRequestSource struct {
	client *gogithub.Client
}

// NewPullRequestSource creates a source authenticated with token.
func NewPullRequestSource(token string) *PullRequestSource {
	return &PullRequestSource{
		client: gogithub.NewClient(nil).WithAuthToken(token),
	}
}

// NewPullRequestSourceWithClient creates a source around an existing client.
// Used by tests to point at a local server.
func NewPullRequestSourceWithClient(client *gogithub.Client) *PullRequestSource {
	return &PullRequestSource{client: client}
}

// PullRequest returns the record for a PR number, or ErrPullRequestNotFound
// when the number does not resolve.
func (s *PullRequestSource) PullRequest(ctx context.Context, owner, repo string, number int) (history.PullRequest, error) {
	pr, resp, err := s.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return history.PullRequest{}, fmt.Errorf("%w: %s/%s#%d", service.ErrPullRequestNotFound, owner, repo, number)
		}
		return history.PullRequest{}, fmt.Errorf("get pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	return history.NewPullRequest(
		pr.GetNumber(),
		pr.GetTitle(),
		pr.GetBody(),
		pr.GetHTMLURL(),
	), nil
}

// Ensure PullRequestSource implements PullSource.
var _ service.PullSource = (*PullRequestSource)(nil)
