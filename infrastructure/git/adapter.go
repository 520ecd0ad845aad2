// Package git reads commit and tag history from a local repository mirror.
// Two adapters implement the same interface: GoGitAdapter (pure Go, default)
// and GiteaAdapter (gitea's git module, shelling out to the git binary).
package git

import (
	"context"
	"time"
)

// Adapter defines the low-level git operations the reporting pipeline needs.
// Implementations wrap specific git libraries.
type Adapter interface {
	// CloneRepository clones a repository to local path.
	CloneRepository(ctx context.Context, remoteURL string, localPath string) error

	// FetchRepository fetches latest changes for an existing repository.
	FetchRepository(ctx context.Context, localPath string) error

	// RepositoryExists checks if a repository exists at local path.
	RepositoryExists(ctx context.Context, localPath string) (bool, error)

	// ListCommits returns up to maxCount commits newest-first, with the ref
	// labels decorated at each commit. branchPattern optionally scopes the
	// walk to the first branch whose short name matches the glob; an empty
	// pattern (or no matching branch) walks from HEAD.
	ListCommits(ctx context.Context, localPath string, maxCount int, branchPattern string) ([]CommitInfo, error)

	// ListTags returns all tag names ordered by creation date descending.
	ListTags(ctx context.Context, localPath string) ([]string, error)

	// ResolveTagTarget resolves a tag name to the commit it ultimately
	// points to, unwrapping annotated tag objects.
	ResolveTagTarget(ctx context.Context, localPath string, tagName string) (string, error)

	// TagMetadata probes a tag's object type. Annotated tags carry tagger
	// name, email, date and a message subject; lightweight tags carry none.
	TagMetadata(ctx context.Context, localPath string, tagName string) (TagMeta, error)

	// CommitDetails returns the commit record for a specific sha.
	CommitDetails(ctx context.Context, localPath string, sha string) (CommitInfo, error)
}

// CommitInfo holds commit metadata returned from the adapter.
type CommitInfo struct {
	SHA         string
	Message     string
	AuthorName  string
	AuthorEmail string
	AuthoredAt  time.Time
	Refs        []string
}

// TagMeta holds the probed metadata for a single tag.
type TagMeta struct {
	Annotated   bool
	TaggerName  string
	TaggerEmail string
	TaggedAt    time.Time
	Subject     string
}
