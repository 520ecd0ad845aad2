package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/shipcheck/shipcheck/domain/history"
	"github.com/shipcheck/shipcheck/domain/report"
	"github.com/shipcheck/shipcheck/domain/service"
)

// Target is one repository to report on, fully resolved from configuration.
type Target struct {
	Owner         string
	Repo          string
	URL           string
	Mirror        string
	Rule          report.Rule
	BranchPattern string
}

// Name returns the owner/repo display name.
func (t Target) Name() string { return t.Owner + "/" + t.Repo }

// SourceFactory opens a history source for a mirror path.
type SourceFactory func(mirrorPath string) service.HistorySource

// Pipeline runs the collect, correlate, categorize and render stages for each
// target. Targets run concurrently with no shared mutable state; each
// target's output is buffered and flushed atomically to the sink.
type Pipeline struct {
	sources SourceFactory
	cloner  service.Cloner
	pulls   service.PullSource
	sink    io.Writer
	logger  *slog.Logger

	maxCommits  int
	concurrency int
	retain      int
	recentTags  int
	trackerBase string
	sync        bool

	mu sync.Mutex
}

// NewPipeline creates a Pipeline. pulls may be nil to disable enrichment;
// cloner may be nil when mirrors are managed externally.
func NewPipeline(sources SourceFactory, cloner service.Cloner, pulls service.PullSource, sink io.Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		sources:     sources,
		cloner:      cloner,
		pulls:       pulls,
		sink:        sink,
		logger:      logger,
		maxCommits:  200,
		concurrency: 8,
		retain:      3,
		recentTags:  5,
	}
}

// WithMaxCommits bounds each target's commit walk.
func (p *Pipeline) WithMaxCommits(n int) *Pipeline {
	if n > 0 {
		p.maxCommits = n
	}
	return p
}

// WithConcurrency bounds in-flight remote fetches per stage.
func (p *Pipeline) WithConcurrency(n int) *Pipeline {
	if n > 0 {
		p.concurrency = n
	}
	return p
}

// WithRetention sets the per-category retention and recent-tag limits.
func (p *Pipeline) WithRetention(retain, recentTags int) *Pipeline {
	if retain > 0 {
		p.retain = retain
	}
	if recentTags > 0 {
		p.recentTags = recentTags
	}
	return p
}

// WithTrackerBase sets the issue-tracker base URL.
func (p *Pipeline) WithTrackerBase(base string) *Pipeline {
	p.trackerBase = base
	return p
}

// WithSync makes the run clone or fetch each target's mirror first.
func (p *Pipeline) WithSync(sync bool) *Pipeline {
	p.sync = sync
	return p
}

// Run reports on every target. Each target's errors are isolated: a failing
// target is logged and reported in the joined error, the others complete.
func (p *Pipeline) Run(ctx context.Context, targets []Target) error {
	var wg sync.WaitGroup
	errs := make([]error, len(targets))

	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.runTarget(ctx, target); err != nil {
				p.logger.Error("report failed",
					slog.String("repo", target.Name()),
					slog.String("error", err.Error()),
				)
				errs[i] = fmt.Errorf("report %s: %w", target.Name(), err)
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// runTarget executes the sequential pipeline for one target into a private
// buffer, then flushes the buffer atomically.
func (p *Pipeline) runTarget(ctx context.Context, target Target) error {
	mirror, err := p.ensureMirror(ctx, target)
	if err != nil {
		return err
	}

	source := p.sources(mirror)

	collector := NewCollector(source, p.logger).
		WithMaxCommits(p.maxCommits).
		WithConcurrency(p.concurrency).
		WithBranchPattern(target.BranchPattern)

	hist, err := collector.Collect(ctx)
	if err != nil {
		return err
	}

	correlator := NewCorrelator(p.pulls, target.Owner, target.Repo, p.logger).
		WithConcurrency(p.concurrency).
		WithTrackerBase(p.trackerBase)

	tagCommits := correlator.TagCommits(hist.Commits(), hist.Tags())
	since, lastTagged, found := correlator.SinceLastRelease(hist.Commits())
	links := correlator.Enrich(ctx, since)

	var prs []history.PullRequest
	for _, link := range links {
		if link.HasPullRequest() {
			prs = append(prs, link.PullRequest())
		}
	}

	reporter := NewReporter(p.retain, p.recentTags)
	categories := reporter.Categorize(tagCommits, target.Rule)

	rep := Report{
		RepoName:   target.Name(),
		RepoURL:    target.URL,
		Since:      links,
		LastTagged: lastTagged,
		HasLastTag: found,
		CompareURL: compareURL(target.URL, lastTagged, since, found),
		IssueRefs:  correlator.IssueRefs(prs),
		Categories: categories,
		RecentTags: hist.Tags(),
	}

	var buf bytes.Buffer
	if err := reporter.Render(&buf, rep); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = io.Copy(p.sink, &buf)
	return err
}

// ensureMirror returns the mirror path for a target, cloning or fetching it
// first when the run is a sync run.
func (p *Pipeline) ensureMirror(ctx context.Context, target Target) (string, error) {
	if p.sync && p.cloner != nil {
		return p.cloner.Ensure(ctx, target.URL)
	}
	if target.Mirror != "" {
		return target.Mirror, nil
	}
	if p.cloner != nil {
		return p.cloner.ClonePathFromURL(target.URL), nil
	}
	return "", fmt.Errorf("no mirror path for %s", target.Name())
}

// compareURL builds the diff link between the most recent tag and the newest
// commit since it.
func compareURL(repoURL string, lastTagged history.Commit, since []history.Commit, found bool) string {
	if !found || repoURL == "" {
		return ""
	}

	base, ok := lastTagged.TagRefName()
	if !ok {
		base = lastTagged.ShortSHA()
	}

	head := lastTagged.SHA()
	if len(since) > 0 {
		head = since[0].SHA()
	}
	return repoURL + "/compare/" + base + "..." + head
}
