// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultLogLevel          = "INFO"
	DefaultMirrorSubdir      = "mirrors"
	DefaultFetchConcurrency  = 8
	DefaultRetainPerCategory = 3
	DefaultRecentTags        = 5
	DefaultMaxCommits        = 200
	DefaultTrackerBaseURL    = "https://issues.example.com/browse"
	DefaultReposFile         = "shipcheck.yaml"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// GitAdapter selects the git backend.
type GitAdapter string

// GitAdapter values.
const (
	GitAdapterGoGit GitAdapter = "gogit"
	GitAdapterGitea GitAdapter = "gitea"
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	dataDir           string
	logLevel          string
	logFormat         LogFormat
	githubToken       string
	gitAdapter        GitAdapter
	fetchConcurrency  int
	retainPerCategory int
	recentTags        int
	maxCommits        int
	trackerBaseURL    string
	enrich            bool
	reposFile         string
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shipcheck"
	}
	return filepath.Join(home, ".shipcheck")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		dataDir:           DefaultDataDir(),
		logLevel:          DefaultLogLevel,
		logFormat:         LogFormatPretty,
		gitAdapter:        GitAdapterGoGit,
		fetchConcurrency:  DefaultFetchConcurrency,
		retainPerCategory: DefaultRetainPerCategory,
		recentTags:        DefaultRecentTags,
		maxCommits:        DefaultMaxCommits,
		trackerBaseURL:    DefaultTrackerBaseURL,
		enrich:            true,
		reposFile:         DefaultReposFile,
	}
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// GitHubToken returns the GitHub API token.
func (c AppConfig) GitHubToken() string { return c.githubToken }

// GitAdapter returns the selected git backend.
func (c AppConfig) GitAdapter() GitAdapter { return c.gitAdapter }

// FetchConcurrency returns the in-flight remote fetch bound.
func (c AppConfig) FetchConcurrency() int { return c.fetchConcurrency }

// RetainPerCategory returns how many commits each category keeps.
func (c AppConfig) RetainPerCategory() int { return c.retainPerCategory }

// RecentTags returns how many recently-created tags the report shows.
func (c AppConfig) RecentTags() int { return c.recentTags }

// MaxCommits returns the commit-walk bound.
func (c AppConfig) MaxCommits() int { return c.maxCommits }

// TrackerBaseURL returns the issue-tracker browse base URL.
func (c AppConfig) TrackerBaseURL() string { return c.trackerBaseURL }

// Enrich returns whether pull-request enrichment is enabled.
func (c AppConfig) Enrich() bool { return c.enrich }

// ReposFile returns the repositories file path.
func (c AppConfig) ReposFile() string { return c.reposFile }

// MirrorDir returns the mirror directory path.
func (c AppConfig) MirrorDir() string {
	return filepath.Join(c.dataDir, DefaultMirrorSubdir)
}

// EnsureMirrorDir creates the mirror directory if it doesn't exist.
func (c AppConfig) EnsureMirrorDir() error {
	if err := os.MkdirAll(c.MirrorDir(), 0o755); err != nil {
		return fmt.Errorf("create mirror directory: %w", err)
	}
	return nil
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.dataDir = dir }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithGitHubToken sets the GitHub API token.
func WithGitHubToken(token string) AppConfigOption {
	return func(c *AppConfig) { c.githubToken = token }
}

// WithGitAdapter sets the git backend.
func WithGitAdapter(adapter GitAdapter) AppConfigOption {
	return func(c *AppConfig) { c.gitAdapter = adapter }
}

// WithFetchConcurrency sets the remote fetch bound.
func WithFetchConcurrency(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.fetchConcurrency = n
		}
	}
}

// WithRetainPerCategory sets the per-category retention.
func WithRetainPerCategory(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.retainPerCategory = n
		}
	}
}

// WithRecentTags sets the recent-tag display limit.
func WithRecentTags(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.recentTags = n
		}
	}
}

// WithMaxCommits sets the commit-walk bound.
func WithMaxCommits(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.maxCommits = n
		}
	}
}

// WithTrackerBaseURL sets the issue-tracker base URL.
func WithTrackerBaseURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.trackerBaseURL = url }
}

// WithEnrich sets whether pull-request enrichment is enabled.
func WithEnrich(enrich bool) AppConfigOption {
	return func(c *AppConfig) { c.enrich = enrich }
}

// WithReposFile sets the repositories file path.
func WithReposFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.reposFile = path }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// The token is shown only as presence.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("mirror_dir", c.MirrorDir()),
		slog.String("log_level", c.logLevel),
		slog.String("git_adapter", string(c.gitAdapter)),
		slog.Int("fetch_concurrency", c.fetchConcurrency),
		slog.Int("retain_per_category", c.retainPerCategory),
		slog.Int("max_commits", c.maxCommits),
		slog.Bool("enrich", c.enrich),
		slog.Bool("github_token_set", c.githubToken != ""),
		slog.String("repos_file", c.reposFile),
	}
}
