package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"https URL", "https://github.com/acme/widget", "acme", "widget", false},
		{"https URL with .git", "https://github.com/acme/widget.git", "acme", "widget", false},
		{"ssh-style URL", "git@github.com:acme/widget.git", "acme", "widget", false},
		{"trailing slash", "https://github.com/acme/widget/", "acme", "widget", false},
		{"missing repo", "https://github.com/acme", "", "", true},
		{"bare word", "widget", "", "", true},
		{"empty", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseOwnerRepo(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadRepoURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func writeReposFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shipcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReposFile(t *testing.T) {
	path := writeReposFile(t, `
repositories:
  - url: https://github.com/acme/widget
    mirror: /data/mirrors/widget
    category_pattern: '^[A-Za-z]+'
    release_branch: release
  - url: git@github.com:acme/gadget.git
    category_prefix: docs
`)

	file, err := LoadReposFile(path)
	require.NoError(t, err)
	require.Len(t, file.Repositories, 2)

	first := file.Repositories[0]
	assert.Equal(t, "https://github.com/acme/widget", first.URL)
	assert.Equal(t, "/data/mirrors/widget", first.Mirror)
	assert.Equal(t, "^[A-Za-z]+", first.CategoryPattern)
	assert.Equal(t, "release", first.ReleaseBranch)

	owner, repo, err := file.Repositories[1].OwnerRepo()
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "gadget", repo)
	assert.Equal(t, "docs", file.Repositories[1].CategoryPrefix)
}

func TestLoadReposFile_BadURLIsFatal(t *testing.T) {
	path := writeReposFile(t, `
repositories:
  - url: not-a-repository
`)

	_, err := LoadReposFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRepoURL)
}

func TestLoadReposFile_EmptyListRejected(t *testing.T) {
	path := writeReposFile(t, "repositories: []\n")

	_, err := LoadReposFile(path)
	require.Error(t, err)
}

func TestLoadReposFile_Missing(t *testing.T) {
	_, err := LoadReposFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
