package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	giteagit "code.gitea.io/gitea/modules/git"
	"code.gitea.io/gitea/modules/git/gitcmd"
	"code.gitea.io/gitea/modules/setting"
)

// GiteaAdapter implements Adapter using Gitea's git module (native git binary).
type GiteaAdapter struct {
	logger *slog.Logger
}

var giteaInitOnce sync.Once
var giteaInitErr error

// NewGiteaAdapter creates a new GiteaAdapter. It initializes the Gitea git
// module once (verifying the git binary is available).
func NewGiteaAdapter(logger *slog.Logger) (*GiteaAdapter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git is not installed or not in PATH: install git and try again")
	}

	giteaInitOnce.Do(func() {
		// Gitea's git module requires a HomePath for its git environment.
		// Use a temporary directory so git config is isolated.
		home, err := os.MkdirTemp("", "shipcheck-git-home-*")
		if err != nil {
			giteaInitErr = fmt.Errorf("create git home directory: %w", err)
			return
		}
		setting.Git.HomePath = home

		giteaInitErr = giteagit.InitSimple()
	})
	if giteaInitErr != nil {
		return nil, fmt.Errorf("init git: %w", giteaInitErr)
	}

	return &GiteaAdapter{logger: logger}, nil
}

// CloneRepository clones a repository to local path.
func (g *GiteaAdapter) CloneRepository(ctx context.Context, remoteURL string, localPath string) error {
	g.logger.Info("cloning repository",
		slog.String("url", remoteURL),
		slog.String("path", localPath),
	)

	err := giteagit.Clone(ctx, remoteURL, localPath, giteagit.CloneRepoOptions{})
	if err != nil {
		return fmt.Errorf("clone repository: %w", err)
	}

	return nil
}

// FetchRepository fetches latest changes for an existing repository.
func (g *GiteaAdapter) FetchRepository(ctx context.Context, localPath string) error {
	_, _, err := gitcmd.NewCommand("fetch", "--force", "--tags", "origin").
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return fmt.Errorf("fetch repository: %w", err)
	}
	return nil
}

// RepositoryExists checks if a repository exists at local path.
func (g *GiteaAdapter) RepositoryExists(ctx context.Context, localPath string) (bool, error) {
	_, err := giteagit.OpenRepository(ctx, localPath)
	if err != nil {
		if _, statErr := os.Stat(localPath); os.IsNotExist(statErr) {
			return false, nil
		}
		if _, statErr := os.Stat(filepath.Join(localPath, ".git")); os.IsNotExist(statErr) {
			return false, nil
		}
		return false, fmt.Errorf("check repository: %w", err)
	}
	return true, nil
}

// ListCommits returns up to maxCount commits newest-first with decorated refs.
func (g *GiteaAdapter) ListCommits(ctx context.Context, localPath string, maxCount int, branchPattern string) ([]CommitInfo, error) {
	ref, err := g.resolveWalkRef(ctx, localPath, branchPattern)
	if err != nil {
		return nil, err
	}

	cmd := gitcmd.NewCommand("log", commitLogFormat)
	if maxCount > 0 {
		cmd = cmd.AddOptionFormat("--max-count=%d", maxCount)
	}

	stdout, _, err := cmd.
		AddDynamicArguments(ref).
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return nil, fmt.Errorf("get commit log: %w", err)
	}

	return parseCommitLog(stdout), nil
}

// ListTags returns all tag names ordered by creation date descending.
func (g *GiteaAdapter) ListTags(ctx context.Context, localPath string) ([]string, error) {
	stdout, _, err := gitcmd.NewCommand("tag", "--list", "--sort=-creatordate").
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// ResolveTagTarget resolves a tag name to the commit it ultimately points to.
func (g *GiteaAdapter) ResolveTagTarget(ctx context.Context, localPath string, tagName string) (string, error) {
	stdout, _, err := gitcmd.NewCommand("rev-list", "-n", "1").
		AddDynamicArguments(tagName).
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return "", fmt.Errorf("resolve tag %q: %w", tagName, err)
	}

	sha := strings.TrimSpace(stdout)
	if sha == "" {
		return "", fmt.Errorf("resolve tag %q: no target commit", tagName)
	}
	return sha, nil
}

// TagMetadata probes a tag's object type via for-each-ref. Annotated tags
// report objecttype "tag" and carry tagger fields; lightweight tags report
// "commit" and carry none.
func (g *GiteaAdapter) TagMetadata(ctx context.Context, localPath string, tagName string) (TagMeta, error) {
	stdout, _, err := gitcmd.NewCommand("for-each-ref",
		"--format=%(objecttype)%00%(taggername)%00%(taggeremail)%00%(taggerdate:iso-strict)%00%(subject)").
		AddDynamicArguments("refs/tags/" + tagName).
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return TagMeta{}, fmt.Errorf("read tag %q: %w", tagName, err)
	}

	line := strings.TrimSpace(stdout)
	if line == "" {
		return TagMeta{}, fmt.Errorf("read tag %q: not found", tagName)
	}

	fields := strings.SplitN(line, "\x00", 5)
	if len(fields) < 5 || fields[0] != "tag" {
		return TagMeta{Annotated: false}, nil
	}

	taggedAt, _ := time.Parse(time.RFC3339, strings.TrimSpace(fields[3]))
	return TagMeta{
		Annotated:   true,
		TaggerName:  strings.TrimSpace(fields[1]),
		TaggerEmail: strings.Trim(strings.TrimSpace(fields[2]), "<>"),
		TaggedAt:    taggedAt,
		Subject:     strings.TrimSpace(fields[4]),
	}, nil
}

// CommitDetails returns the commit record for a specific sha.
func (g *GiteaAdapter) CommitDetails(ctx context.Context, localPath string, sha string) (CommitInfo, error) {
	repo, err := giteagit.OpenRepository(ctx, localPath)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open repository: %w", err)
	}
	defer func() { _ = repo.Close() }()

	commit, err := repo.GetCommit(sha)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get commit %s: %w", sha, err)
	}

	return CommitInfo{
		SHA:         commit.ID.String(),
		Message:     commit.CommitMessage,
		AuthorName:  commit.Author.Name,
		AuthorEmail: commit.Author.Email,
		AuthoredAt:  commit.Author.When,
	}, nil
}

// resolveWalkRef picks the ref the commit walk begins at: the first branch
// (local, then remote) whose name matches the glob, or HEAD.
func (g *GiteaAdapter) resolveWalkRef(ctx context.Context, localPath string, branchPattern string) (string, error) {
	if branchPattern == "" {
		return "HEAD", nil
	}

	stdout, _, err := gitcmd.NewCommand("for-each-ref", "--format=%(refname:short)",
		"refs/heads", "refs/remotes/origin").
		RunStdString(ctx, &gitcmd.RunOpts{Dir: localPath})
	if err != nil {
		return "", fmt.Errorf("list branches: %w", err)
	}

	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || name == "origin/HEAD" {
			continue
		}
		short := strings.TrimPrefix(name, "origin/")
		if matched, _ := filepath.Match(branchPattern, short); matched || short == branchPattern {
			return name, nil
		}
	}

	g.logger.Debug("no branch matches pattern, walking from HEAD",
		slog.String("pattern", branchPattern),
	)
	return "HEAD", nil
}

// commitLogFormat is the git log format string for parsing commits.
// Fields are separated by \x00, records by \x01. %D carries the ref
// decorations at each commit ("tag: v1.2.0", branch names).
const commitLogFormat = "--format=%x01%H%x00%an%x00%ae%x00%aI%x00%D%x00%B"

// parseCommitLog parses the output of git log with commitLogFormat.
func parseCommitLog(stdout string) []CommitInfo {
	stdout = strings.TrimSpace(stdout)
	if stdout == "" {
		return nil
	}

	records := strings.Split(stdout, "\x01")
	var commits []CommitInfo

	for _, record := range records {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		fields := strings.SplitN(record, "\x00", 6)
		if len(fields) < 6 {
			continue
		}

		authoredAt, _ := time.Parse(time.RFC3339, strings.TrimSpace(fields[3]))

		info := CommitInfo{
			SHA:         strings.TrimSpace(fields[0]),
			AuthorName:  strings.TrimSpace(fields[1]),
			AuthorEmail: strings.TrimSpace(fields[2]),
			AuthoredAt:  authoredAt,
			Message:     strings.TrimSpace(fields[5]),
		}

		decorations := strings.TrimSpace(fields[4])
		if decorations != "" {
			for _, d := range strings.Split(decorations, ",") {
				d = strings.TrimSpace(d)
				if d != "" && d != "HEAD" {
					info.Refs = append(info.Refs, strings.TrimPrefix(d, "HEAD -> "))
				}
			}
		}

		commits = append(commits, info)
	}

	return commits
}

// Ensure GiteaAdapter implements Adapter.
var _ Adapter = (*GiteaAdapter)(nil)
