package git

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shipcheck/shipcheck/domain/service"
)

// MirrorCloner keeps local repository mirrors up to date.
// Implements domain/service.Cloner.
type MirrorCloner struct {
	adapter  Adapter
	cloneDir string
	logger   *slog.Logger
}

// NewMirrorCloner creates a MirrorCloner rooted at cloneDir.
func NewMirrorCloner(adapter Adapter, cloneDir string, logger *slog.Logger) *MirrorCloner {
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorCloner{
		adapter:  adapter,
		cloneDir: cloneDir,
		logger:   logger,
	}
}

// ClonePathFromURL returns the local mirror path for a repository URL.
func (c *MirrorCloner) ClonePathFromURL(url string) string {
	return filepath.Join(c.cloneDir, sanitizeURLForPath(url))
}

// Ensure clones the repository if the mirror doesn't exist, otherwise fetches
// the latest changes. Returns the mirror path.
func (c *MirrorCloner) Ensure(ctx context.Context, remoteURL string) (string, error) {
	clonePath := c.ClonePathFromURL(remoteURL)

	exists, err := c.adapter.RepositoryExists(ctx, clonePath)
	if err != nil {
		return "", fmt.Errorf("check mirror: %w", err)
	}

	if exists {
		c.logger.Info("fetching mirror",
			slog.String("url", remoteURL),
			slog.String("path", clonePath),
		)
		if err := c.adapter.FetchRepository(ctx, clonePath); err != nil {
			return "", err
		}
		return clonePath, nil
	}

	if err := c.adapter.CloneRepository(ctx, remoteURL, clonePath); err != nil {
		// Clean up on failure
		_ = os.RemoveAll(clonePath)
		return "", err
	}

	return clonePath, nil
}

func sanitizeURLForPath(url string) string {
	result := make([]byte, 0, len(url))

	for _, b := range []byte(url) {
		switch b {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '@':
			result = append(result, '_')
		default:
			result = append(result, b)
		}
	}

	// Remove common prefixes
	s := string(result)
	for _, prefix := range []string{"https___", "http___", "git___", "ssh___"} {
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			s = s[len(prefix):]
			break
		}
	}

	// Keep the directory name short enough that the full mirror path stays
	// under path-length limits; long URLs get a hash suffix.
	const maxLen = 80
	if len(s) > maxLen {
		hash := sha256.Sum256([]byte(url))
		suffix := hex.EncodeToString(hash[:8])
		s = s[:maxLen-len(suffix)-1] + "-" + suffix
	}

	return s
}

// Ensure MirrorCloner implements Cloner.
var _ service.Cloner = (*MirrorCloner)(nil)
