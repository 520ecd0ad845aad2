package history

import (
	"testing"
	"time"
)

func TestCommit_ShortSHA(t *testing.T) {
	tests := []struct {
		name string
		sha  string
		want string
	}{
		{"normal SHA", "abc1234567890", "abc1234"},
		{"exactly 7 chars", "abc1234", "abc1234"},
		{"shorter than 7", "abc", "abc"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCommit(tt.sha, "msg", NewAuthor("n", "e"), time.Now())
			if got := c.ShortSHA(); got != tt.want {
				t.Errorf("ShortSHA() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommit_ShortMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"single line", "fix bug", "fix bug"},
		{"multi-line", "fix bug\n\nDetailed description", "fix bug"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCommit("abc1234", tt.message, NewAuthor("n", "e"), time.Now())
			if got := c.ShortMessage(); got != tt.want {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommit_HasTagRef(t *testing.T) {
	tests := []struct {
		name string
		refs []string
		want bool
	}{
		{"no refs", nil, false},
		{"branch only", []string{"main", "origin/main"}, false},
		{"tag marker", []string{"tag: v1.2.0"}, true},
		{"tag after branch", []string{"main", "tag: v1.2.0"}, true},
		{"padded marker", []string{" tag: v1.2.0"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCommit("abc", "msg", NewAuthor("n", "e"), time.Now()).WithRefs(tt.refs)
			if got := c.HasTagRef(); got != tt.want {
				t.Errorf("HasTagRef() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommit_TagRefName(t *testing.T) {
	c := NewCommit("abc", "msg", NewAuthor("n", "e"), time.Now()).
		WithRefs([]string{"main", "tag: v1.2.0", "tag: v1.2.1"})

	name, ok := c.TagRefName()
	if !ok {
		t.Fatal("TagRefName() ok = false, want true")
	}
	if name != "v1.2.0" {
		t.Errorf("TagRefName() = %q, want %q", name, "v1.2.0")
	}

	plain := NewCommit("abc", "msg", NewAuthor("n", "e"), time.Now())
	if _, ok := plain.TagRefName(); ok {
		t.Error("TagRefName() ok = true for commit without tag refs")
	}
}

func TestCommit_RefsAreCopied(t *testing.T) {
	refs := []string{"main"}
	c := NewCommit("abc", "msg", NewAuthor("n", "e"), time.Now()).WithRefs(refs)
	refs[0] = "mutated"

	if c.Refs()[0] != "main" {
		t.Error("WithRefs should copy the input slice")
	}

	out := c.Refs()
	out[0] = "mutated"
	if c.Refs()[0] != "main" {
		t.Error("Refs should return a copy")
	}
}

func TestAuthor_String(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"Alice", "alice@example.com", "Alice <alice@example.com>"},
		{"Bob", "", "Bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthor(tt.name, tt.email)
			if got := a.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
