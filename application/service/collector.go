// Package service contains the reporting pipeline stages. Each stage is a
// plain struct built over the narrow contracts in domain/service; stages own
// no state beyond their collaborators and options.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shipcheck/shipcheck/domain/history"
	"github.com/shipcheck/shipcheck/domain/service"
)

// History is the output of one collection pass: commits newest-first and
// fully-resolved tags in creation order, newest-first.
type History struct {
	commits []history.Commit
	tags    []history.Tag
}

// NewHistory creates a History from collected commits and tags.
func NewHistory(commits []history.Commit, tags []history.Tag) History {
	return History{commits: commits, tags: tags}
}

// Commits returns the collected commits, newest first.
func (h History) Commits() []history.Commit { return h.commits }

// Tags returns the resolved tags in creation order, newest first.
func (h History) Tags() []history.Tag { return h.tags }

// Collector pulls raw commit and tag records from a history source and
// normalizes them. A tag that fails to resolve is logged and skipped, never
// fatal to the pass.
type Collector struct {
	source        service.HistorySource
	logger        *slog.Logger
	maxCommits    int
	concurrency   int
	branchPattern string
}

// NewCollector creates a Collector over a history source.
func NewCollector(source service.HistorySource, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		source:      source,
		logger:      logger,
		maxCommits:  200,
		concurrency: 8,
	}
}

// WithMaxCommits bounds the commit walk.
func (c *Collector) WithMaxCommits(n int) *Collector {
	if n > 0 {
		c.maxCommits = n
	}
	return c
}

// WithConcurrency bounds in-flight tag resolutions.
func (c *Collector) WithConcurrency(n int) *Collector {
	if n > 0 {
		c.concurrency = n
	}
	return c
}

// WithBranchPattern scopes the commit walk to a matching branch.
func (c *Collector) WithBranchPattern(pattern string) *Collector {
	c.branchPattern = pattern
	return c
}

// Collect produces the commit list and the resolved tag list for one pass.
func (c *Collector) Collect(ctx context.Context) (History, error) {
	commits, err := c.source.ListCommits(ctx, c.maxCommits, c.branchPattern)
	if err != nil {
		return History{}, fmt.Errorf("list commits: %w", err)
	}

	names, err := c.source.ListTags(ctx)
	if err != nil {
		return History{}, fmt.Errorf("list tags: %w", err)
	}

	tags, err := c.resolveTags(ctx, names)
	if err != nil {
		return History{}, err
	}

	return NewHistory(commits, tags), nil
}

// resolveTags resolves tag names concurrently, bounded by the configured
// concurrency. Results come back in input order; failed tags are dropped.
func (c *Collector) resolveTags(ctx context.Context, names []string) ([]history.Tag, error) {
	resolved := make([]history.Tag, len(names))
	ok := make([]bool, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, name := range names {
		g.Go(func() error {
			tag, err := c.resolveTag(ctx, name)
			if err != nil {
				c.logger.Warn("skipping unresolvable tag",
					slog.String("tag", name),
					slog.String("error", err.Error()),
				)
				return nil
			}
			resolved[i] = tag
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tags := make([]history.Tag, 0, len(names))
	for i := range resolved {
		if ok[i] {
			tags = append(tags, resolved[i])
		}
	}
	return tags, nil
}

func (c *Collector) resolveTag(ctx context.Context, name string) (history.Tag, error) {
	tag, err := c.source.ResolveTag(ctx, name)
	if err != nil {
		return history.Tag{}, err
	}
	if tag.IsAnnotated() {
		return tag, nil
	}

	// Lightweight tags carry no date of their own; fall back to the target
	// commit's author date.
	commit, err := c.source.CommitDetails(ctx, tag.TargetSHA())
	if err != nil {
		c.logger.Warn("lightweight tag target lookup failed, using sentinel date",
			slog.String("tag", name),
			slog.String("sha", tag.TargetSHA()),
			slog.String("error", err.Error()),
		)
		return tag, nil
	}

	c.logger.Warn("lightweight tag, falling back to commit date",
		slog.String("tag", name),
		slog.String("sha", tag.TargetSHA()),
	)
	return tag.WithDate(commit.AuthoredAt()), nil
}
