package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/shipcheck/shipcheck/domain/history"
	"github.com/shipcheck/shipcheck/domain/service"
)

// RepoSource binds an Adapter to one mirror path and exposes it as the
// domain-level history source the pipeline consumes.
type RepoSource struct {
	adapter Adapter
	path    string
}

// NewRepoSource creates a RepoSource for a mirror path.
func NewRepoSource(adapter Adapter, path string) *RepoSource {
	return &RepoSource{adapter: adapter, path: path}
}

// ListCommits returns up to maxCount commits newest-first with decorated refs.
func (s *RepoSource) ListCommits(ctx context.Context, maxCount int, branchPattern string) ([]history.Commit, error) {
	infos, err := s.adapter.ListCommits(ctx, s.path, maxCount, branchPattern)
	if err != nil {
		return nil, err
	}

	commits := make([]history.Commit, len(infos))
	for i, info := range infos {
		commits[i] = infoToCommit(info)
	}
	return commits, nil
}

// ListTags returns all tag names ordered by creation date descending.
func (s *RepoSource) ListTags(ctx context.Context) ([]string, error) {
	return s.adapter.ListTags(ctx, s.path)
}

// ResolveTag resolves a tag name to a Tag value. Lightweight tags come back
// without a date; the collector applies the commit-date fallback.
func (s *RepoSource) ResolveTag(ctx context.Context, name string) (history.Tag, error) {
	target, err := s.adapter.ResolveTagTarget(ctx, s.path, name)
	if err != nil {
		return history.Tag{}, fmt.Errorf("%w: %v", service.ErrTagNotFound, err)
	}

	meta, err := s.adapter.TagMetadata(ctx, s.path, name)
	if err != nil {
		return history.Tag{}, fmt.Errorf("%w: %v", service.ErrTagNotFound, err)
	}

	if meta.Annotated {
		tagger := history.NewAuthor(meta.TaggerName, meta.TaggerEmail)
		return history.NewAnnotatedTag(name, target, meta.Subject, tagger, meta.TaggedAt), nil
	}
	return history.NewTag(name, target), nil
}

// CommitDetails returns the commit record for a sha.
func (s *RepoSource) CommitDetails(ctx context.Context, sha string) (history.Commit, error) {
	info, err := s.adapter.CommitDetails(ctx, s.path, sha)
	if err != nil {
		return history.Commit{}, err
	}
	return infoToCommit(info), nil
}

func infoToCommit(info CommitInfo) history.Commit {
	author := history.NewAuthor(info.AuthorName, info.AuthorEmail)
	commit := history.NewCommit(info.SHA, info.Message, author, info.AuthoredAt)

	if body := messageBody(info.Message); body != "" {
		commit = commit.WithBody(body)
	}
	if len(info.Refs) > 0 {
		commit = commit.WithRefs(info.Refs)
	}
	return commit
}

// messageBody returns the portion of a commit message after the first blank
// line, or empty when the message is subject-only.
func messageBody(message string) string {
	if i := strings.Index(message, "\n\n"); i >= 0 {
		return strings.TrimSpace(message[i+2:])
	}
	return ""
}

// Ensure RepoSource implements HistorySource.
var _ service.HistorySource = (*RepoSource)(nil)
