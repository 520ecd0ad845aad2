package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingToken indicates the GitHub token is absent while enrichment is
// enabled.
var ErrMissingToken = errors.New("github token not configured")

// ErrBadRepoURL indicates a repository URL an owner/repo pair cannot be
// derived from.
var ErrBadRepoURL = errors.New("unparseable repository url")

// RepoConfig is one repository entry from the repositories file.
type RepoConfig struct {
	// URL is the canonical repository URL. Owner and repo are derived from
	// it; it also prefixes compare-diff links.
	URL string `yaml:"url"`

	// Mirror is the local mirror path. Empty means the path is derived
	// from the URL under the data directory.
	Mirror string `yaml:"mirror"`

	// CategoryPattern is a regular expression applied to tag names. The
	// first capture group, when present, names the category; otherwise the
	// whole match does.
	CategoryPattern string `yaml:"category_pattern"`

	// CategoryPrefix is a literal-prefix alternative to CategoryPattern.
	CategoryPrefix string `yaml:"category_prefix"`

	// ReleaseBranch optionally scopes the commit walk to a matching branch.
	ReleaseBranch string `yaml:"release_branch"`
}

// OwnerRepo derives the owner/repo pair from the URL.
func (r RepoConfig) OwnerRepo() (owner, repo string, err error) {
	return ParseOwnerRepo(r.URL)
}

// ReposFile is the parsed repositories file.
type ReposFile struct {
	Repositories []RepoConfig `yaml:"repositories"`
}

// LoadReposFile reads and validates the repositories file. Every entry's URL
// must yield an owner/repo pair; a bad URL is a fatal configuration error.
func LoadReposFile(path string) (ReposFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReposFile{}, fmt.Errorf("read repositories file: %w", err)
	}

	var file ReposFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ReposFile{}, fmt.Errorf("parse repositories file: %w", err)
	}
	if len(file.Repositories) == 0 {
		return ReposFile{}, fmt.Errorf("repositories file %s lists no repositories", path)
	}

	for _, repo := range file.Repositories {
		if _, _, err := repo.OwnerRepo(); err != nil {
			return ReposFile{}, err
		}
	}
	return file, nil
}

// ParseOwnerRepo derives the owner/repo pair from a repository URL. Accepts
// https URLs and scp-style ssh addresses (git@host:owner/repo.git).
func ParseOwnerRepo(rawURL string) (owner, repo string, err error) {
	path := ""

	switch {
	case strings.Contains(rawURL, "://"):
		u, parseErr := url.Parse(rawURL)
		if parseErr != nil {
			return "", "", fmt.Errorf("%w: %s", ErrBadRepoURL, rawURL)
		}
		path = u.Path
	case strings.Contains(rawURL, "@") && strings.Contains(rawURL, ":"):
		path = rawURL[strings.Index(rawURL, ":")+1:]
	default:
		return "", "", fmt.Errorf("%w: %s", ErrBadRepoURL, rawURL)
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrBadRepoURL, rawURL)
	}
	return parts[0], parts[1], nil
}
