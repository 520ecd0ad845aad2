// Package history holds the value objects produced by a single reporting
// pass over a repository mirror: commits, tags, tagged commits and the
// pull-request records they link to. Nothing in this package outlives a run.
package history

import (
	"strings"
	"time"
)

// Commit represents a single commit observed in the mirror's history.
type Commit struct {
	sha        string
	message    string
	body       string
	author     Author
	authoredAt time.Time
	refs       []string
}

// NewCommit creates a new Commit.
func NewCommit(sha, message string, author Author, authoredAt time.Time) Commit {
	return Commit{
		sha:        sha,
		message:    message,
		author:     author,
		authoredAt: authoredAt,
	}
}

// WithBody returns a copy with the full message body attached.
func (c Commit) WithBody(body string) Commit {
	c.body = body
	return c
}

// WithRefs returns a copy carrying the ref labels decorated at this commit.
func (c Commit) WithRefs(refs []string) Commit {
	c.refs = make([]string, len(refs))
	copy(c.refs, refs)
	return c
}

// SHA returns the commit identifier.
func (c Commit) SHA() string { return c.sha }

// Message returns the commit message subject.
func (c Commit) Message() string { return c.message }

// Body returns the full commit message body, if collected.
func (c Commit) Body() string { return c.body }

// Author returns the commit author.
func (c Commit) Author() Author { return c.author }

// AuthoredAt returns the author timestamp used for all chronological ordering.
func (c Commit) AuthoredAt() time.Time { return c.authoredAt }

// Refs returns the ref labels observed at this commit at collection time.
func (c Commit) Refs() []string {
	refs := make([]string, len(c.refs))
	copy(refs, c.refs)
	return refs
}

// ShortSHA returns the first 7 characters of the SHA.
func (c Commit) ShortSHA() string {
	if len(c.sha) <= 7 {
		return c.sha
	}
	return c.sha[:7]
}

// ShortMessage returns the first line of the message.
func (c Commit) ShortMessage() string {
	if i := strings.IndexByte(c.message, '\n'); i >= 0 {
		return c.message[:i]
	}
	return c.message
}

// TagRefPrefix marks a tag decoration in a commit's ref list, as emitted by
// git's %D format and by the go-git reference walk.
const TagRefPrefix = "tag: "

// HasTagRef reports whether any ref label at this commit is a tag marker.
func (c Commit) HasTagRef() bool {
	for _, r := range c.refs {
		if strings.HasPrefix(strings.TrimSpace(r), TagRefPrefix) {
			return true
		}
	}
	return false
}

// TagRefName returns the first tag name decorated at this commit, if any.
func (c Commit) TagRefName() (string, bool) {
	for _, r := range c.refs {
		r = strings.TrimSpace(r)
		if strings.HasPrefix(r, TagRefPrefix) {
			return strings.TrimPrefix(r, TagRefPrefix), true
		}
	}
	return "", false
}
