package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appservice "github.com/shipcheck/shipcheck/application/service"
	"github.com/shipcheck/shipcheck/domain/report"
	domainservice "github.com/shipcheck/shipcheck/domain/service"
	"github.com/shipcheck/shipcheck/infrastructure/git"
	"github.com/shipcheck/shipcheck/infrastructure/github"
	"github.com/shipcheck/shipcheck/internal/config"
	"github.com/shipcheck/shipcheck/internal/log"
)

func reportCmd() *cobra.Command {
	var (
		envFile   string
		reposFile string
		adapter   string
		sync      bool
		noEnrich  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a categorized release summary for each configured repository",
		Long: `Print a categorized release summary for each configured repository.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  SHIPCHECK_DATA_DIR             Data directory (default: ~/.shipcheck)
  SHIPCHECK_LOG_LEVEL            Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  SHIPCHECK_LOG_FORMAT           Log format: pretty, json (default: pretty)
  SHIPCHECK_GITHUB_TOKEN         GitHub API token for pull-request enrichment
  SHIPCHECK_GIT_ADAPTER          Git backend: gogit, gitea (default: gogit)
  SHIPCHECK_FETCH_CONCURRENCY    In-flight remote fetch bound (default: 8)
  SHIPCHECK_RETAIN_PER_CATEGORY  Commits kept per category (default: 3)
  SHIPCHECK_RECENT_TAGS          Recently-created tags shown (default: 5)
  SHIPCHECK_MAX_COMMITS          Commit-walk bound (default: 200)
  SHIPCHECK_TRACKER_BASE_URL     Issue-tracker browse base URL
  SHIPCHECK_ENRICH               Enable pull-request enrichment (default: true)
  SHIPCHECK_REPOS_FILE           Repositories file (default: shipcheck.yaml)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(envFile, reposFile, adapter, sync, noEnrich)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&reposFile, "repos-file", "", "Path to the repositories file (default: shipcheck.yaml)")
	cmd.Flags().StringVar(&adapter, "adapter", "", "Git backend: gogit, gitea (default: gogit)")
	cmd.Flags().BoolVar(&sync, "sync", false, "Clone or fetch each repository mirror before reporting")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "Skip pull-request enrichment (no GitHub token needed)")

	return cmd
}

func runReport(envFile, reposFile, adapter string, sync, noEnrich bool) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if reposFile != "" {
		cfg = cfg.Apply(config.WithReposFile(reposFile))
	}
	if adapter != "" {
		cfg = cfg.Apply(config.WithGitAdapter(config.GitAdapter(adapter)))
	}
	if noEnrich {
		cfg = cfg.Apply(config.WithEnrich(false))
	}

	logger := log.Configure(cfg)
	logger.Slog().LogAttrs(context.Background(), slog.LevelDebug, "configuration loaded", cfg.LogAttrs()...)

	// The token gates every enrichment fetch; check it once before any
	// network call.
	if cfg.Enrich() && cfg.GitHubToken() == "" {
		return fmt.Errorf("%w: set SHIPCHECK_GITHUB_TOKEN or pass --no-enrich", config.ErrMissingToken)
	}

	repos, err := config.LoadReposFile(cfg.ReposFile())
	if err != nil {
		return err
	}

	targets, err := buildTargets(repos)
	if err != nil {
		return err
	}

	gitAdapter := newGitAdapter(cfg, logger)
	cloner := git.NewMirrorCloner(gitAdapter, cfg.MirrorDir(), logger.Slog())
	if sync {
		if err := cfg.EnsureMirrorDir(); err != nil {
			return err
		}
	}

	var pulls domainservice.PullSource
	if cfg.Enrich() {
		pulls = github.NewPullRequestSource(cfg.GitHubToken())
	}

	sources := func(mirrorPath string) domainservice.HistorySource {
		return git.NewRepoSource(gitAdapter, mirrorPath)
	}

	pipeline := appservice.NewPipeline(sources, cloner, pulls, os.Stdout, logger.Slog()).
		WithMaxCommits(cfg.MaxCommits()).
		WithConcurrency(cfg.FetchConcurrency()).
		WithRetention(cfg.RetainPerCategory(), cfg.RecentTags()).
		WithTrackerBase(cfg.TrackerBaseURL()).
		WithSync(sync)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return pipeline.Run(ctx, targets)
}

// buildTargets resolves repository configs into pipeline targets. An
// unparseable URL or category pattern is fatal before any work starts.
func buildTargets(repos config.ReposFile) ([]appservice.Target, error) {
	targets := make([]appservice.Target, 0, len(repos.Repositories))
	for _, rc := range repos.Repositories {
		owner, repo, err := rc.OwnerRepo()
		if err != nil {
			return nil, err
		}

		rule, err := buildRule(rc)
		if err != nil {
			return nil, fmt.Errorf("repository %s: %w", rc.URL, err)
		}

		targets = append(targets, appservice.Target{
			Owner:         owner,
			Repo:          repo,
			URL:           rc.URL,
			Mirror:        rc.Mirror,
			Rule:          rule,
			BranchPattern: rc.ReleaseBranch,
		})
	}
	return targets, nil
}

func buildRule(rc config.RepoConfig) (report.Rule, error) {
	if rc.CategoryPattern != "" {
		return report.NewRegexpRule(rc.CategoryPattern)
	}
	if rc.CategoryPrefix != "" {
		return report.NewPrefixRule(rc.CategoryPrefix), nil
	}
	// Leading alphabetic run, so v1.2.3 lands in "v" and docs-5 in "docs".
	return report.NewRegexpRule(`^[A-Za-z]+`)
}

// newGitAdapter picks the configured git backend, falling back to go-git when
// the git binary is unavailable.
func newGitAdapter(cfg config.AppConfig, logger *log.Logger) git.Adapter {
	if cfg.GitAdapter() == config.GitAdapterGitea {
		adapter, err := git.NewGiteaAdapter(logger.Slog())
		if err == nil {
			return adapter
		}
		logger.Warn("gitea adapter unavailable, falling back to go-git", "error", err.Error())
	}
	return git.NewGoGitAdapter(logger.Slog())
}
