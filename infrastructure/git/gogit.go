package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/shipcheck/shipcheck/domain/history"
)

// GoGitAdapter implements Adapter using the go-git library.
type GoGitAdapter struct {
	logger *slog.Logger
}

// NewGoGitAdapter creates a new GoGitAdapter.
func NewGoGitAdapter(logger *slog.Logger) *GoGitAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoGitAdapter{logger: logger}
}

// CloneRepository clones a repository to local path.
func (g *GoGitAdapter) CloneRepository(ctx context.Context, remoteURL string, localPath string) error {
	g.logger.Info("cloning repository",
		slog.String("url", remoteURL),
		slog.String("path", localPath),
	)

	_, err := gogit.PlainCloneContext(ctx, localPath, false, &gogit.CloneOptions{
		URL:      remoteURL,
		Progress: nil,
	})
	if err != nil {
		return fmt.Errorf("clone repository: %w", err)
	}

	return nil
}

// FetchRepository fetches latest changes for an existing repository.
func (g *GoGitAdapter) FetchRepository(ctx context.Context, localPath string) error {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	err = repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: "origin",
		Force:      true,
		Tags:       gogit.AllTags,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch repository: %w", err)
	}

	return nil
}

// RepositoryExists checks if a repository exists at local path.
func (g *GoGitAdapter) RepositoryExists(ctx context.Context, localPath string) (bool, error) {
	_, err := gogit.PlainOpen(localPath)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return false, nil
		}
		return false, fmt.Errorf("check repository: %w", err)
	}
	return true, nil
}

// ListCommits returns up to maxCount commits newest-first with decorated refs.
func (g *GoGitAdapter) ListCommits(ctx context.Context, localPath string, maxCount int, branchPattern string) ([]CommitInfo, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	from, err := g.walkStart(repo, branchPattern)
	if err != nil {
		return nil, err
	}

	labels, err := g.refLabels(repo)
	if err != nil {
		return nil, err
	}

	commitIter, err := repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("get commit log: %w", err)
	}
	defer commitIter.Close()

	var commits []CommitInfo
	err = commitIter.ForEach(func(c *object.Commit) error {
		commits = append(commits, commitToInfo(c, labels[c.Hash]))
		if maxCount > 0 && len(commits) >= maxCount {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate commits: %w", err)
	}

	return commits, nil
}

// ListTags returns all tag names ordered by creation date descending.
func (g *GoGitAdapter) ListTags(ctx context.Context, localPath string) ([]string, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	tagIter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	defer tagIter.Close()

	type tagEntry struct {
		name string
		when time.Time
	}

	var entries []tagEntry
	err = tagIter.ForEach(func(ref *plumbing.Reference) error {
		entry := tagEntry{name: ref.Name().Short()}

		if tagObj, err := repo.TagObject(ref.Hash()); err == nil {
			entry.when = tagObj.Tagger.When
		} else if commit, err := repo.CommitObject(ref.Hash()); err == nil {
			// Lightweight tags take the target commit's committer
			// date as their creation date.
			entry.when = commit.Committer.When
		}

		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].when.After(entries[j].when)
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names, nil
}

// ResolveTagTarget resolves a tag name to the commit it ultimately points to.
func (g *GoGitAdapter) ResolveTagTarget(ctx context.Context, localPath string, tagName string) (string, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Reference(plumbing.NewTagReferenceName(tagName), true)
	if err != nil {
		return "", fmt.Errorf("resolve tag %q: %w", tagName, err)
	}

	// Annotated tags wrap the commit in a tag object.
	if tagObj, err := repo.TagObject(ref.Hash()); err == nil {
		return tagObj.Target.String(), nil
	}

	return ref.Hash().String(), nil
}

// TagMetadata probes a tag for annotated-tag metadata.
func (g *GoGitAdapter) TagMetadata(ctx context.Context, localPath string, tagName string) (TagMeta, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return TagMeta{}, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Reference(plumbing.NewTagReferenceName(tagName), true)
	if err != nil {
		return TagMeta{}, fmt.Errorf("resolve tag %q: %w", tagName, err)
	}

	tagObj, err := repo.TagObject(ref.Hash())
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			// Lightweight tag: a bare pointer with no metadata of its own.
			return TagMeta{Annotated: false}, nil
		}
		return TagMeta{}, fmt.Errorf("read tag object %q: %w", tagName, err)
	}

	return TagMeta{
		Annotated:   true,
		TaggerName:  tagObj.Tagger.Name,
		TaggerEmail: tagObj.Tagger.Email,
		TaggedAt:    tagObj.Tagger.When,
		Subject:     firstLine(tagObj.Message),
	}, nil
}

// CommitDetails returns the commit record for a specific sha.
func (g *GoGitAdapter) CommitDetails(ctx context.Context, localPath string, sha string) (CommitInfo, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open repository: %w", err)
	}

	commit, err := repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get commit %s: %w", sha, err)
	}

	return commitToInfo(commit, nil), nil
}

// walkStart resolves the hash the commit walk begins at: the first branch
// whose short name matches the glob, or HEAD when the pattern is empty or
// matches nothing.
func (g *GoGitAdapter) walkStart(repo *gogit.Repository, branchPattern string) (plumbing.Hash, error) {
	if branchPattern != "" {
		if ref, ok := g.findBranchByPattern(repo, branchPattern); ok {
			return ref.Hash(), nil
		}
		g.logger.Debug("no branch matches pattern, walking from HEAD",
			slog.String("pattern", branchPattern),
		)
	}

	head, err := repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("get HEAD: %w", err)
	}
	return head.Hash(), nil
}

func (g *GoGitAdapter) findBranchByPattern(repo *gogit.Repository, pattern string) (*plumbing.Reference, bool) {
	var found *plumbing.Reference

	refIter, err := repo.References()
	if err != nil {
		return nil, false
	}
	defer refIter.Close()

	_ = refIter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if !name.IsBranch() && !name.IsRemote() {
			return nil
		}
		short := name.Short()
		if name.IsRemote() {
			if short == "origin/HEAD" {
				return nil
			}
			short = trimOriginPrefix(short)
		}
		if matched, _ := path.Match(pattern, short); matched || short == pattern {
			found = ref
			return storer.ErrStop
		}
		return nil
	})

	return found, found != nil
}

// refLabels maps each commit sha to the ref labels decorated at it: branch
// names verbatim and tag names behind the "tag: " marker. Annotated tag refs
// are unwrapped to the commit they target.
func (g *GoGitAdapter) refLabels(repo *gogit.Repository) (map[plumbing.Hash][]string, error) {
	labels := make(map[plumbing.Hash][]string)

	refIter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("get references: %w", err)
	}
	defer refIter.Close()

	err = refIter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		switch {
		case name.IsTag():
			target := ref.Hash()
			if tagObj, err := repo.TagObject(ref.Hash()); err == nil {
				target = tagObj.Target
			}
			labels[target] = append(labels[target], history.TagRefPrefix+name.Short())
		case name.IsBranch(), name.IsRemote():
			if name.Short() == "origin/HEAD" {
				return nil
			}
			labels[ref.Hash()] = append(labels[ref.Hash()], name.Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate references: %w", err)
	}

	return labels, nil
}

func trimOriginPrefix(name string) string {
	const prefix = "origin/"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}

func commitToInfo(c *object.Commit, refs []string) CommitInfo {
	return CommitInfo{
		SHA:         c.Hash.String(),
		Message:     c.Message,
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthoredAt:  c.Author.When,
		Refs:        refs,
	}
}

// Ensure GoGitAdapter implements Adapter.
var _ Adapter = (*GoGitAdapter)(nil)
