package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shipcheck/shipcheck/domain/history"
	"github.com/shipcheck/shipcheck/domain/service"
)

// legacyIssueIDs are placeholder identifiers that predate the tracker's
// project keys. They match the extraction pattern but carry no signal, so
// they never become tracker links.
var legacyIssueIDs = map[string]struct{}{
	"OT-1": {},
	"OT-2": {},
}

// CommitLink pairs a commit with the pull request its message references,
// when one could be fetched.
type CommitLink struct {
	commit history.Commit
	pr     history.PullRequest
}

// Commit returns the underlying commit.
func (l CommitLink) Commit() history.Commit { return l.commit }

// PullRequest returns the linked pull request, or the zero value.
func (l CommitLink) PullRequest() history.PullRequest { return l.pr }

// HasPullRequest reports whether a pull request was fetched for this commit.
func (l CommitLink) HasPullRequest() bool { return !l.pr.IsZero() }

// Correlator deduplicates tags onto commits, finds the commits since the
// last release, and enriches commits with pull-request records.
type Correlator struct {
	pulls       service.PullSource
	owner       string
	repo        string
	logger      *slog.Logger
	concurrency int
	trackerBase string
}

// NewCorrelator creates a Correlator for one repository. pulls may be nil,
// in which case enrichment is skipped entirely.
func NewCorrelator(pulls service.PullSource, owner, repo string, logger *slog.Logger) *Correlator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Correlator{
		pulls:       pulls,
		owner:       owner,
		repo:        repo,
		logger:      logger,
		concurrency: 8,
	}
}

// WithConcurrency bounds in-flight pull-request fetches.
func (c *Correlator) WithConcurrency(n int) *Correlator {
	if n > 0 {
		c.concurrency = n
	}
	return c
}

// WithTrackerBase sets the issue-tracker base URL used to build issue links.
func (c *Correlator) WithTrackerBase(base string) *Correlator {
	c.trackerBase = strings.TrimRight(base, "/")
	return c
}

// TagCommits collapses tags onto their target commits. The first tag observed
// for a sha creates the TagCommit; later tags for the same sha append their
// name. Output preserves first-seen order. Pure and idempotent.
func (c *Correlator) TagCommits(commits []history.Commit, tags []history.Tag) []history.TagCommit {
	bySHA := make(map[string]history.Commit, len(commits))
	for _, commit := range commits {
		bySHA[commit.SHA()] = commit
	}

	index := make(map[string]int, len(tags))
	var result []history.TagCommit

	for _, tag := range tags {
		sha := tag.TargetSHA()
		if i, ok := index[sha]; ok {
			result[i] = result[i].WithTag(tag.Name())
			continue
		}

		tc := c.newTagCommit(tag, bySHA)
		index[sha] = len(result)
		result = append(result, tc)
	}
	return result
}

// newTagCommit builds the TagCommit for a tag's target. When the target is
// inside the collected commit window its own metadata is used; otherwise the
// tag's date stands in and the message is unknown.
func (c *Correlator) newTagCommit(tag history.Tag, bySHA map[string]history.Commit) history.TagCommit {
	if commit, ok := bySHA[tag.TargetSHA()]; ok {
		return history.NewTagCommit(commit.SHA(), commit.AuthoredAt(), commit.ShortMessage(), commit.Author(), tag.Name())
	}
	return history.NewTagCommit(tag.TargetSHA(), tag.Date(), "", history.Author{}, tag.Name())
}

// SinceLastRelease walks commits newest-first and accumulates until the first
// commit decorated with a tag marker. That commit is the most recent release;
// commits past it are not examined.
func (c *Correlator) SinceLastRelease(commits []history.Commit) (since []history.Commit, lastTagged history.Commit, found bool) {
	for _, commit := range commits {
		if commit.HasTagRef() {
			return since, commit, true
		}
		since = append(since, commit)
	}
	return since, history.Commit{}, false
}

// Enrich fetches the pull request referenced by each commit's message, bounded
// by the configured concurrency. Results keep input order. A failed or
// not-found fetch leaves the commit without a pull request and the run
// continues.
func (c *Correlator) Enrich(ctx context.Context, commits []history.Commit) []CommitLink {
	links := make([]CommitLink, len(commits))
	for i, commit := range commits {
		links[i] = CommitLink{commit: commit}
	}
	if c.pulls == nil {
		return links
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, commit := range commits {
		number, ok := history.ExtractPRNumber(commit.Message())
		if !ok {
			continue
		}

		g.Go(func() error {
			pr, err := c.pulls.PullRequest(ctx, c.owner, c.repo, number)
			if err != nil {
				c.logger.Warn("pull request fetch failed, reporting commit without link",
					slog.String("sha", commit.ShortSHA()),
					slog.Int("number", number),
					slog.String("error", err.Error()),
				)
				return nil
			}
			links[i].pr = pr
			return nil
		})
	}
	_ = g.Wait()

	return links
}

// IssueRefs extracts tracker references from pull-request titles and bodies:
// identifier matches become links under the tracker base, and tracker URLs
// appearing verbatim are kept as-is. The two sets are unioned, deduplicated
// and sorted.
func (c *Correlator) IssueRefs(prs []history.PullRequest) []string {
	seen := make(map[string]struct{})
	var refs []string

	add := func(url string) {
		if _, ok := seen[url]; ok {
			return
		}
		seen[url] = struct{}{}
		refs = append(refs, url)
	}

	for _, pr := range prs {
		text := pr.Title() + "\n" + pr.Body()

		for _, id := range history.ExtractIssueIDs(text) {
			if _, legacy := legacyIssueIDs[id]; legacy {
				continue
			}
			if c.trackerBase != "" {
				add(c.trackerBase + "/" + id)
			}
		}
		for _, url := range history.ExtractIssueURLs(text, c.trackerBase) {
			add(url)
		}
	}

	sort.Strings(refs)
	return refs
}
