package history

import "time"

// SentinelDate is assigned to a tag whose authoritative date cannot be
// determined at all. It sorts last in descending-recency order instead of
// breaking comparisons with a zero time.
var SentinelDate = time.Unix(0, 0).UTC()

// Tag represents a single tag resolved against the mirror. Two tags may
// target the same commit; a tag name is unique per repository.
type Tag struct {
	name      string
	targetSHA string
	taggedAt  time.Time
	annotated bool
	tagger    Author
	subject   string
}

// NewTag creates a lightweight Tag. Its date must be supplied by the caller
// from the target commit (see WithDate); until then it carries SentinelDate.
func NewTag(name, targetSHA string) Tag {
	return Tag{
		name:      name,
		targetSHA: targetSHA,
		taggedAt:  SentinelDate,
	}
}

// NewAnnotatedTag creates an annotated Tag carrying its own tagger metadata.
func NewAnnotatedTag(name, targetSHA, subject string, tagger Author, taggedAt time.Time) Tag {
	return Tag{
		name:      name,
		targetSHA: targetSHA,
		taggedAt:  taggedAt,
		annotated: true,
		tagger:    tagger,
		subject:   subject,
	}
}

// WithDate returns a copy with the given fallback date. Used for lightweight
// tags, whose date comes from the target commit's author date.
func (t Tag) WithDate(date time.Time) Tag {
	if date.IsZero() {
		date = SentinelDate
	}
	t.taggedAt = date
	return t
}

// Name returns the tag name.
func (t Tag) Name() string { return t.name }

// TargetSHA returns the commit this tag ultimately points to.
func (t Tag) TargetSHA() string { return t.targetSHA }

// Date returns the tag's timestamp. Never zero: lightweight tags carry their
// target commit's author date, or SentinelDate when that is unknown.
func (t Tag) Date() time.Time { return t.taggedAt }

// IsAnnotated reports whether the tag carries its own tagger metadata.
func (t Tag) IsAnnotated() bool { return t.annotated }

// Tagger returns the tagger for annotated tags, or the zero Author.
func (t Tag) Tagger() Author { return t.tagger }

// Subject returns the annotated tag's message subject.
func (t Tag) Subject() string { return t.subject }
