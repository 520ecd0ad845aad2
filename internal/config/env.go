package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "SHIPCHECK"

// EnvConfig holds all environment-based configuration.
// Field names map to environment variables with the SHIPCHECK_ prefix.
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: SHIPCHECK_DATA_DIR
	// Default: ~/.shipcheck
	DataDir string `envconfig:"DATA_DIR"`

	// LogLevel is the log verbosity level.
	// Env: SHIPCHECK_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: SHIPCHECK_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// GitHubToken authenticates pull-request fetches.
	// Env: SHIPCHECK_GITHUB_TOKEN
	GitHubToken string `envconfig:"GITHUB_TOKEN"`

	// GitAdapter selects the git backend (gogit or gitea).
	// Env: SHIPCHECK_GIT_ADAPTER (default: gogit)
	GitAdapter string `envconfig:"GIT_ADAPTER" default:"gogit"`

	// FetchConcurrency bounds in-flight remote fetches.
	// Env: SHIPCHECK_FETCH_CONCURRENCY (default: 8)
	FetchConcurrency int `envconfig:"FETCH_CONCURRENCY" default:"8"`

	// RetainPerCategory is how many commits each category keeps.
	// Env: SHIPCHECK_RETAIN_PER_CATEGORY (default: 3)
	RetainPerCategory int `envconfig:"RETAIN_PER_CATEGORY" default:"3"`

	// RecentTags is how many recently-created tags the report shows.
	// Env: SHIPCHECK_RECENT_TAGS (default: 5)
	RecentTags int `envconfig:"RECENT_TAGS" default:"5"`

	// MaxCommits bounds the commit walk.
	// Env: SHIPCHECK_MAX_COMMITS (default: 200)
	MaxCommits int `envconfig:"MAX_COMMITS" default:"200"`

	// TrackerBaseURL is the issue-tracker browse base URL.
	// Env: SHIPCHECK_TRACKER_BASE_URL
	TrackerBaseURL string `envconfig:"TRACKER_BASE_URL" default:"https://issues.example.com/browse"`

	// Enrich controls pull-request enrichment.
	// Env: SHIPCHECK_ENRICH (default: true)
	Enrich bool `envconfig:"ENRICH" default:"true"`

	// ReposFile is the repositories file path.
	// Env: SHIPCHECK_REPOS_FILE (default: shipcheck.yaml)
	ReposFile string `envconfig:"REPOS_FILE" default:"shipcheck.yaml"`
}

// LoadFromEnv loads configuration from SHIPCHECK_-prefixed environment
// variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.GitHubToken != "" {
		cfg = cfg.Apply(WithGitHubToken(e.GitHubToken))
	}
	if e.GitAdapter != "" {
		cfg = cfg.Apply(WithGitAdapter(parseGitAdapter(e.GitAdapter)))
	}
	if e.TrackerBaseURL != "" {
		cfg = cfg.Apply(WithTrackerBaseURL(e.TrackerBaseURL))
	}
	if e.ReposFile != "" {
		cfg = cfg.Apply(WithReposFile(e.ReposFile))
	}

	return cfg.Apply(
		WithFetchConcurrency(e.FetchConcurrency),
		WithRetainPerCategory(e.RetainPerCategory),
		WithRecentTags(e.RecentTags),
		WithMaxCommits(e.MaxCommits),
		WithEnrich(e.Enrich),
	)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

// parseGitAdapter parses a git adapter name.
func parseGitAdapter(s string) GitAdapter {
	switch strings.ToLower(s) {
	case "gitea":
		return GitAdapterGitea
	default:
		return GitAdapterGoGit
	}
}
