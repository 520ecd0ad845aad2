package service

import (
	"fmt"
	"io"

	"github.com/shipcheck/shipcheck/domain/history"
	"github.com/shipcheck/shipcheck/domain/report"
)

const dateLayout = "2006-01-02 15:04"

// Report is the rendering model for one repository: everything the run
// produced, ready for line-oriented output.
type Report struct {
	RepoName   string // owner/repo
	RepoURL    string
	Since      []CommitLink
	LastTagged history.Commit
	HasLastTag bool
	CompareURL string
	IssueRefs  []string
	Categories *report.Categories
	RecentTags []history.Tag
}

// Reporter categorizes tagged commits and renders the final report.
type Reporter struct {
	retain     int
	recentTags int
}

// NewReporter creates a Reporter with per-category retention and recent-tag
// display limits.
func NewReporter(retain, recentTags int) *Reporter {
	if retain < 1 {
		retain = 3
	}
	if recentTags < 1 {
		recentTags = 5
	}
	return &Reporter{retain: retain, recentTags: recentTags}
}

// Categorize offers every tag name on every commit to the rule. A commit may
// land in several categories when its tags match distinct keys; within one
// category it appears at most once.
func (r *Reporter) Categorize(tagCommits []history.TagCommit, rule report.Rule) *report.Categories {
	categories := report.NewCategories(r.retain)
	if rule == nil {
		return categories
	}

	for _, tc := range tagCommits {
		for _, name := range tc.Tags() {
			if key, ok := rule.Match(name); ok {
				categories.Add(key, tc)
			}
		}
	}
	return categories
}

// Render writes the report as line-oriented sections.
func (r *Reporter) Render(w io.Writer, rep Report) error {
	if err := r.renderHeader(w, rep); err != nil {
		return err
	}
	if err := r.renderSince(w, rep); err != nil {
		return err
	}
	if err := r.renderIssueRefs(w, rep); err != nil {
		return err
	}
	if err := r.renderCategories(w, rep); err != nil {
		return err
	}
	return r.renderRecentTags(w, rep)
}

func (r *Reporter) renderHeader(w io.Writer, rep Report) error {
	_, err := fmt.Fprintf(w, "=== %s ===\n\n", rep.RepoName)
	return err
}

func (r *Reporter) renderSince(w io.Writer, rep Report) error {
	if _, err := fmt.Fprintf(w, "Commits since last release (%d):\n", len(rep.Since)); err != nil {
		return err
	}
	for _, link := range rep.Since {
		c := link.Commit()
		if _, err := fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			c.ShortSHA(), c.AuthoredAt().Format(dateLayout), c.Author().Name(), c.ShortMessage()); err != nil {
			return err
		}
		prLink := "N/A"
		if link.HasPullRequest() {
			prLink = link.PullRequest().HTMLURL()
		}
		if _, err := fmt.Fprintf(w, "    PR Link: %s\n", prLink); err != nil {
			return err
		}
	}

	if rep.HasLastTag {
		tagName, _ := rep.LastTagged.TagRefName()
		if tagName == "" {
			tagName = rep.LastTagged.ShortSHA()
		}
		if _, err := fmt.Fprintf(w, "Most recent tag: %s (%s)\n", tagName, rep.LastTagged.ShortSHA()); err != nil {
			return err
		}
		if rep.CompareURL != "" {
			if _, err := fmt.Fprintf(w, "Compare: %s\n", rep.CompareURL); err != nil {
				return err
			}
		}
	} else if _, err := fmt.Fprintln(w, "Most recent tag: none in walked history"); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)
	return err
}

func (r *Reporter) renderIssueRefs(w io.Writer, rep Report) error {
	if len(rep.IssueRefs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Issue references:"); err != nil {
		return err
	}
	for _, ref := range rep.IssueRefs {
		if _, err := fmt.Fprintf(w, "  %s\n", ref); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (r *Reporter) renderCategories(w io.Writer, rep Report) error {
	if rep.Categories == nil {
		return nil
	}
	for _, name := range rep.Categories.Names() {
		if _, err := fmt.Fprintf(w, "Category %s:\n", name); err != nil {
			return err
		}
		for _, tc := range rep.Categories.Entries(name) {
			if _, err := fmt.Fprintf(w, "  %s  %s  %v  %s  %s\n",
				shortSHA(tc.SHA()), tc.Date().Format(dateLayout), tc.Tags(), tc.Author().Name(), tc.Message()); err != nil {
				return err
			}
		}
	}
	if len(rep.Categories.Names()) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) renderRecentTags(w io.Writer, rep Report) error {
	tags := rep.RecentTags
	if len(tags) > r.recentTags {
		tags = tags[:r.recentTags]
	}
	if len(tags) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "Recent tags:"); err != nil {
		return err
	}
	for _, tag := range tags {
		if tag.IsAnnotated() {
			if _, err := fmt.Fprintf(w, "  %s  %s  %s  %s\n",
				tag.Name(), tag.Date().Format(dateLayout), tag.Tagger().Name(), tag.Subject()); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s  %s  (lightweight tag: no tagger metadata)\n",
			tag.Name(), tag.Date().Format(dateLayout)); err != nil {
			return err
		}
	}
	return nil
}

func shortSHA(sha string) string {
	if len(sha) <= 7 {
		return sha
	}
	return sha[:7]
}
