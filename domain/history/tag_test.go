package history

import (
	"testing"
	"time"
)

func TestTag_IsAnnotated(t *testing.T) {
	lightweight := NewTag("v1.0.0", "abc123")
	if lightweight.IsAnnotated() {
		t.Error("lightweight tag should not be annotated")
	}

	annotated := NewAnnotatedTag("v1.0.0", "abc123", "release", NewAuthor("Alice", "a@b.com"), time.Now())
	if !annotated.IsAnnotated() {
		t.Error("annotated tag should be annotated")
	}
}

func TestTag_DateNeverZero(t *testing.T) {
	lightweight := NewTag("v1.0.0", "abc123")
	if lightweight.Date().IsZero() {
		t.Error("Date() should never be zero for a fresh lightweight tag")
	}
	if !lightweight.Date().Equal(SentinelDate) {
		t.Errorf("Date() = %v, want sentinel %v", lightweight.Date(), SentinelDate)
	}
}

func TestTag_WithDate(t *testing.T) {
	commitDate := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tag := NewTag("docs-5", "def456").WithDate(commitDate)

	if !tag.Date().Equal(commitDate) {
		t.Errorf("Date() = %v, want %v", tag.Date(), commitDate)
	}

	// Zero fallback dates collapse to the sentinel so sorting stays total.
	sentinel := NewTag("docs-5", "def456").WithDate(time.Time{})
	if !sentinel.Date().Equal(SentinelDate) {
		t.Errorf("Date() = %v, want sentinel", sentinel.Date())
	}
}

func TestTag_SentinelSortsLast(t *testing.T) {
	dated := NewAnnotatedTag("v1.0.0", "a", "", NewAuthor("n", "e"), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	undated := NewTag("mystery", "b")

	if !undated.Date().Before(dated.Date()) {
		t.Error("sentinel date should sort after any real date in descending order")
	}
}

func TestTagCommit_WithTag(t *testing.T) {
	tc := NewTagCommit("abc", time.Now(), "msg", NewAuthor("n", "e"), "v1.0.0")

	tc = tc.WithTag("v1.0.1")
	tc = tc.WithTag("v1.0.0") // duplicate, ignored
	tc = tc.WithTag("v1.0.1") // duplicate, ignored

	got := tc.Tags()
	want := []string{"v1.0.0", "v1.0.1"}
	if len(got) != len(want) {
		t.Fatalf("Tags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTagCommit_WithTagDoesNotMutate(t *testing.T) {
	tc := NewTagCommit("abc", time.Now(), "msg", NewAuthor("n", "e"), "v1.0.0")
	tc2 := tc.WithTag("v1.0.1")

	if len(tc.Tags()) != 1 {
		t.Errorf("original Tags() = %v, want single entry", tc.Tags())
	}
	if len(tc2.Tags()) != 2 {
		t.Errorf("derived Tags() = %v, want two entries", tc2.Tags())
	}
}
