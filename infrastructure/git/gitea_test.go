package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommitLog(t *testing.T) {
	stdout := "\x01abc123\x00Alice\x00alice@example.com\x002025-03-01T10:00:00+00:00\x00HEAD -> main, tag: v1.2.0, origin/main\x00fix: crash on empty input (#42)\n\nLonger body.\n" +
		"\x01def456\x00Bob\x00bob@example.com\x002025-02-28T09:00:00+00:00\x00\x00chore: bump deps\n"

	commits := parseCommitLog(stdout)
	require.Len(t, commits, 2)

	first := commits[0]
	assert.Equal(t, "abc123", first.SHA)
	assert.Equal(t, "Alice", first.AuthorName)
	assert.Equal(t, "alice@example.com", first.AuthorEmail)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).Unix(), first.AuthoredAt.Unix())
	assert.Equal(t, []string{"main", "tag: v1.2.0", "origin/main"}, first.Refs)
	assert.Contains(t, first.Message, "fix: crash on empty input (#42)")

	second := commits[1]
	assert.Equal(t, "def456", second.SHA)
	assert.Empty(t, second.Refs)
}

func TestParseCommitLog_Empty(t *testing.T) {
	assert.Nil(t, parseCommitLog(""))
	assert.Nil(t, parseCommitLog("   \n"))
}

func TestParseCommitLog_MalformedRecordSkipped(t *testing.T) {
	stdout := "\x01onlysha\x00toofew\x01abc\x00a\x00a@b\x002025-01-01T00:00:00+00:00\x00\x00msg"
	commits := parseCommitLog(stdout)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc", commits[0].SHA)
}
