package history

import "time"

// TagCommit is the correlation unit: one tagged commit with every tag name
// that resolves to it. Uniqueness by SHA is the caller's invariant; WithTag
// guarantees no duplicate tag names within one TagCommit.
type TagCommit struct {
	sha     string
	date    time.Time
	message string
	author  Author
	tags    []string
}

// NewTagCommit creates a TagCommit for a commit carrying its first tag.
func NewTagCommit(sha string, date time.Time, message string, author Author, tag string) TagCommit {
	return TagCommit{
		sha:     sha,
		date:    date,
		message: message,
		author:  author,
		tags:    []string{tag},
	}
}

// WithTag returns a copy with the tag name appended, unless already present.
func (tc TagCommit) WithTag(name string) TagCommit {
	for _, t := range tc.tags {
		if t == name {
			return tc
		}
	}
	tags := make([]string, len(tc.tags), len(tc.tags)+1)
	copy(tags, tc.tags)
	tc.tags = append(tags, name)
	return tc
}

// SHA returns the commit identifier.
func (tc TagCommit) SHA() string { return tc.sha }

// Date returns the commit's author date.
func (tc TagCommit) Date() time.Time { return tc.date }

// Message returns the commit message subject.
func (tc TagCommit) Message() string { return tc.message }

// Author returns the commit author.
func (tc TagCommit) Author() Author { return tc.author }

// Tags returns the accumulated tag names in insertion order.
func (tc TagCommit) Tags() []string {
	tags := make([]string, len(tc.tags))
	copy(tags, tc.tags)
	return tags
}
