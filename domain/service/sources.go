// Package service defines the narrow contracts the reporting pipeline
// consumes. Infrastructure adapters implement them; application services
// depend only on these interfaces.
package service

import (
	"context"
	"errors"

	"github.com/shipcheck/shipcheck/domain/history"
)

// ErrPullRequestNotFound indicates the referenced pull request does not exist.
var ErrPullRequestNotFound = errors.New("pull request not found")

// ErrTagNotFound indicates a tag could not be resolved in the mirror.
var ErrTagNotFound = errors.New("tag not found")

// HistorySource reads commit and tag data from one repository mirror. All
// calls are synchronous from the caller's perspective and may fail with a
// transport error.
type HistorySource interface {
	// ListCommits returns up to maxCount commits, newest first, with the
	// ref labels decorated at each commit. branchPattern optionally scopes
	// the walk to a matching branch; empty means HEAD.
	ListCommits(ctx context.Context, maxCount int, branchPattern string) ([]history.Commit, error)

	// ListTags returns all tag names ordered by creation date descending.
	ListTags(ctx context.Context) ([]string, error)

	// ResolveTag resolves a tag name to the fully-populated Tag value,
	// distinguishing annotated from lightweight tags. Lightweight tags come
	// back without a date; the caller applies the fallback policy.
	ResolveTag(ctx context.Context, name string) (history.Tag, error)

	// CommitDetails returns the commit record for a sha.
	CommitDetails(ctx context.Context, sha string) (history.Commit, error)
}

// PullSource fetches pull-request records from the hosted API.
type PullSource interface {
	// PullRequest returns the record for a PR number, or
	// ErrPullRequestNotFound when the number does not resolve.
	PullRequest(ctx context.Context, owner, repo string, number int) (history.PullRequest, error)
}

// Cloner keeps a local repository mirror up to date.
type Cloner interface {
	// ClonePathFromURL returns the local mirror path for a repository URL.
	ClonePathFromURL(url string) string

	// Ensure clones the repository if the mirror doesn't exist, otherwise
	// fetches the latest changes. Returns the mirror path.
	Ensure(ctx context.Context, remoteURL string) (string, error)
}
