package report

import "github.com/shipcheck/shipcheck/domain/history"

// Bucket retains the most recent entries of one category, ordered by commit
// date descending. A SHA is never held twice; once the bucket is full a new
// candidate displaces the oldest entry only when it is strictly more recent.
// Equal dates keep insertion order.
type Bucket struct {
	limit   int
	entries []history.TagCommit
}

// NewBucket creates a Bucket retaining at most limit entries.
func NewBucket(limit int) *Bucket {
	if limit < 1 {
		limit = 1
	}
	return &Bucket{limit: limit}
}

// Add offers a candidate to the bucket.
func (b *Bucket) Add(tc history.TagCommit) {
	for _, e := range b.entries {
		if e.SHA() == tc.SHA() {
			return
		}
	}

	if len(b.entries) == b.limit {
		oldest := b.entries[len(b.entries)-1]
		if !tc.Date().After(oldest.Date()) {
			return
		}
	}

	// Insert before the first strictly-older entry; ties stay in
	// insertion order.
	pos := len(b.entries)
	for i, e := range b.entries {
		if e.Date().Before(tc.Date()) {
			pos = i
			break
		}
	}
	b.entries = append(b.entries, history.TagCommit{})
	copy(b.entries[pos+1:], b.entries[pos:])
	b.entries[pos] = tc

	if len(b.entries) > b.limit {
		b.entries = b.entries[:b.limit]
	}
}

// Entries returns the retained commits in descending recency order.
func (b *Bucket) Entries() []history.TagCommit {
	out := make([]history.TagCommit, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of retained entries.
func (b *Bucket) Len() int { return len(b.entries) }

// Categories accumulates buckets keyed by category, remembering the order in
// which categories were first seen.
type Categories struct {
	limit   int
	names   []string
	buckets map[string]*Bucket
}

// NewCategories creates a Categories collection with a per-bucket limit.
func NewCategories(limit int) *Categories {
	return &Categories{
		limit:   limit,
		buckets: make(map[string]*Bucket),
	}
}

// Add offers a tagged commit to the named category's bucket.
func (c *Categories) Add(category string, tc history.TagCommit) {
	b, ok := c.buckets[category]
	if !ok {
		b = NewBucket(c.limit)
		c.buckets[category] = b
		c.names = append(c.names, category)
	}
	b.Add(tc)
}

// Names returns the category names in first-seen order.
func (c *Categories) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Entries returns the retained commits for a category.
func (c *Categories) Entries(category string) []history.TagCommit {
	b, ok := c.buckets[category]
	if !ok {
		return nil
	}
	return b.Entries()
}
