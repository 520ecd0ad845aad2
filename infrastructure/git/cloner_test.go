package git

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	exists      bool
	cloned      []string
	fetched     []string
	commits     []CommitInfo
	tags        []string
	targets     map[string]string
	metas       map[string]TagMeta
	commitBySHA map[string]CommitInfo
	resolveErr  error
}

func (f *fakeAdapter) CloneRepository(_ context.Context, remoteURL, localPath string) error {
	f.cloned = append(f.cloned, remoteURL)
	return nil
}

func (f *fakeAdapter) FetchRepository(_ context.Context, localPath string) error {
	f.fetched = append(f.fetched, localPath)
	return nil
}

func (f *fakeAdapter) RepositoryExists(_ context.Context, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeAdapter) ListCommits(_ context.Context, _ string, maxCount int, _ string) ([]CommitInfo, error) {
	if maxCount > 0 && maxCount < len(f.commits) {
		return f.commits[:maxCount], nil
	}
	return f.commits, nil
}

func (f *fakeAdapter) ListTags(_ context.Context, _ string) ([]string, error) {
	return f.tags, nil
}

func (f *fakeAdapter) ResolveTagTarget(_ context.Context, _ string, tagName string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.targets[tagName], nil
}

func (f *fakeAdapter) TagMetadata(_ context.Context, _ string, tagName string) (TagMeta, error) {
	return f.metas[tagName], nil
}

func (f *fakeAdapter) CommitDetails(_ context.Context, _ string, sha string) (CommitInfo, error) {
	return f.commitBySHA[sha], nil
}

func TestMirrorCloner_EnsureClonesWhenMissing(t *testing.T) {
	fake := &fakeAdapter{exists: false}
	cloner := NewMirrorCloner(fake, t.TempDir(), nil)

	path, err := cloner.Ensure(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	assert.Len(t, fake.cloned, 1)
	assert.Empty(t, fake.fetched)
	assert.Contains(t, path, "github.com_acme_widget")
}

func TestMirrorCloner_EnsureFetchesWhenPresent(t *testing.T) {
	fake := &fakeAdapter{exists: true}
	cloner := NewMirrorCloner(fake, t.TempDir(), nil)

	_, err := cloner.Ensure(context.Background(), "https://github.com/acme/widget")
	require.NoError(t, err)

	assert.Empty(t, fake.cloned)
	assert.Len(t, fake.fetched, 1)
}

func TestSanitizeURLForPath(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"https URL", "https://github.com/acme/widget", "github.com_acme_widget"},
		{"ssh-style URL", "git@github.com:acme/widget.git", "git_github.com_acme_widget.git"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeURLForPath(tt.url); got != tt.want {
				t.Errorf("sanitizeURLForPath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestSanitizeURLForPath_LongURLTruncated(t *testing.T) {
	url := "https://github.com/acme/" + strings.Repeat("verylongname", 20)
	got := sanitizeURLForPath(url)

	assert.LessOrEqual(t, len(got), 80)
	// Distinct long URLs must not collide after truncation.
	other := sanitizeURLForPath(url + "x")
	assert.NotEqual(t, got, other)
}

func TestRepoSource_ResolveTag(t *testing.T) {
	taggedAt := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	fake := &fakeAdapter{
		targets: map[string]string{"v1.0.0": "abc123", "docs-5": "def456"},
		metas: map[string]TagMeta{
			"v1.0.0": {Annotated: true, TaggerName: "Alice", TaggerEmail: "a@b.com", TaggedAt: taggedAt, Subject: "release"},
			"docs-5": {Annotated: false},
		},
	}
	source := NewRepoSource(fake, "/mirrors/widget")

	annotated, err := source.ResolveTag(context.Background(), "v1.0.0")
	require.NoError(t, err)
	assert.True(t, annotated.IsAnnotated())
	assert.Equal(t, "abc123", annotated.TargetSHA())
	assert.Equal(t, "Alice", annotated.Tagger().Name())
	assert.True(t, annotated.Date().Equal(taggedAt))

	lightweight, err := source.ResolveTag(context.Background(), "docs-5")
	require.NoError(t, err)
	assert.False(t, lightweight.IsAnnotated())
	assert.Equal(t, "def456", lightweight.TargetSHA())
}

func TestRepoSource_ListCommitsSplitsBody(t *testing.T) {
	fake := &fakeAdapter{
		commits: []CommitInfo{
			{
				SHA:        "abc",
				Message:    "fix: crash (#42)\n\nDetailed explanation.",
				AuthorName: "Alice",
				AuthoredAt: time.Now(),
				Refs:       []string{"tag: v1.0.0"},
			},
		},
	}
	source := NewRepoSource(fake, "/mirrors/widget")

	commits, err := source.ListCommits(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, commits, 1)

	assert.Equal(t, "fix: crash (#42)", commits[0].ShortMessage())
	assert.Equal(t, "Detailed explanation.", commits[0].Body())
	assert.True(t, commits[0].HasTagRef())
}
