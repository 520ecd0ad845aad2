package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipcheck/shipcheck/domain/history"
)

type fakeHistorySource struct {
	commits    []history.Commit
	tags       []string
	resolved   map[string]history.Tag
	resolveErr map[string]error
	details    map[string]history.Commit
	detailsErr map[string]error
	listErr    error
}

func (f *fakeHistorySource) ListCommits(_ context.Context, maxCount int, _ string) ([]history.Commit, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if maxCount > 0 && maxCount < len(f.commits) {
		return f.commits[:maxCount], nil
	}
	return f.commits, nil
}

func (f *fakeHistorySource) ListTags(_ context.Context) ([]string, error) {
	return f.tags, nil
}

func (f *fakeHistorySource) ResolveTag(_ context.Context, name string) (history.Tag, error) {
	if err := f.resolveErr[name]; err != nil {
		return history.Tag{}, err
	}
	tag, ok := f.resolved[name]
	if !ok {
		return history.Tag{}, fmt.Errorf("unknown tag %q", name)
	}
	return tag, nil
}

func (f *fakeHistorySource) CommitDetails(_ context.Context, sha string) (history.Commit, error) {
	if err := f.detailsErr[sha]; err != nil {
		return history.Commit{}, err
	}
	commit, ok := f.details[sha]
	if !ok {
		return history.Commit{}, fmt.Errorf("unknown commit %q", sha)
	}
	return commit, nil
}

type fakePullSource struct {
	mu    sync.Mutex
	prs   map[int]history.PullRequest
	errs  map[int]error
	calls []int
}

func (f *fakePullSource) PullRequest(_ context.Context, _, _ string, number int) (history.PullRequest, error) {
	f.mu.Lock()
	f.calls = append(f.calls, number)
	f.mu.Unlock()

	if err := f.errs[number]; err != nil {
		return history.PullRequest{}, err
	}
	pr, ok := f.prs[number]
	if !ok {
		return history.PullRequest{}, errors.New("not found")
	}
	return pr, nil
}

func commitAt(sha, message string, authoredAt time.Time) history.Commit {
	return history.NewCommit(sha, message, history.NewAuthor("Alice", "alice@example.com"), authoredAt)
}

func TestCollector_LightweightTagFallsBackToCommitDate(t *testing.T) {
	authoredAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	source := &fakeHistorySource{
		tags:     []string{"docs-5"},
		resolved: map[string]history.Tag{"docs-5": history.NewTag("docs-5", "bbb")},
		details:  map[string]history.Commit{"bbb": commitAt("bbb", "docs update", authoredAt)},
	}

	hist, err := NewCollector(source, nil).Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, hist.Tags(), 1)
	assert.True(t, hist.Tags()[0].Date().Equal(authoredAt))
}

func TestCollector_LightweightTagWithoutTargetKeepsSentinel(t *testing.T) {
	source := &fakeHistorySource{
		tags:       []string{"docs-5"},
		resolved:   map[string]history.Tag{"docs-5": history.NewTag("docs-5", "bbb")},
		detailsErr: map[string]error{"bbb": errors.New("missing object")},
	}

	hist, err := NewCollector(source, nil).Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, hist.Tags(), 1)
	assert.True(t, hist.Tags()[0].Date().Equal(history.SentinelDate))
}

func TestCollector_FailingTagSkippedNotFatal(t *testing.T) {
	taggedAt := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	source := &fakeHistorySource{
		tags: []string{"v1.1.0", "broken", "v1.0.0"},
		resolved: map[string]history.Tag{
			"v1.1.0": history.NewAnnotatedTag("v1.1.0", "aaa", "rel", history.NewAuthor("Bob", "b@c.com"), taggedAt),
			"v1.0.0": history.NewAnnotatedTag("v1.0.0", "ccc", "rel", history.NewAuthor("Bob", "b@c.com"), taggedAt.Add(-time.Hour)),
		},
		resolveErr: map[string]error{"broken": errors.New("corrupt ref")},
	}

	hist, err := NewCollector(source, nil).WithConcurrency(2).Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, hist.Tags(), 2)
	// Input order survives the concurrent resolution.
	assert.Equal(t, "v1.1.0", hist.Tags()[0].Name())
	assert.Equal(t, "v1.0.0", hist.Tags()[1].Name())
}

func TestCollector_MaxCommitsBoundsWalk(t *testing.T) {
	now := time.Now()
	source := &fakeHistorySource{
		commits: []history.Commit{
			commitAt("a", "one", now),
			commitAt("b", "two", now.Add(-time.Minute)),
			commitAt("c", "three", now.Add(-2*time.Minute)),
		},
	}

	hist, err := NewCollector(source, nil).WithMaxCommits(2).Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, hist.Commits(), 2)
}
