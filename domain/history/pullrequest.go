package history

import (
	"regexp"
	"strconv"
	"strings"
)

// PullRequest is the record fetched for a commit's pull-request reference.
type PullRequest struct {
	number  int
	title   string
	body    string
	htmlURL string
}

// NewPullRequest creates a new PullRequest.
func NewPullRequest(number int, title, body, htmlURL string) PullRequest {
	return PullRequest{
		number:  number,
		title:   title,
		body:    body,
		htmlURL: htmlURL,
	}
}

// Number returns the pull-request number.
func (p PullRequest) Number() int { return p.number }

// Title returns the pull-request title.
func (p PullRequest) Title() string { return p.title }

// Body returns the pull-request body.
func (p PullRequest) Body() string { return p.body }

// HTMLURL returns the browsable URL.
func (p PullRequest) HTMLURL() string { return p.htmlURL }

// IsZero reports whether the record is empty (no PR linked).
func (p PullRequest) IsZero() bool { return p.number == 0 }

var prNumberPattern = regexp.MustCompile(`#(\d+)`)

// ExtractPRNumber returns the pull-request number referenced by the first
// #<digits> occurrence in text. When a message references several numbers,
// the first match wins.
func ExtractPRNumber(text string) (int, bool) {
	m := prNumberPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

var issueIDPattern = regexp.MustCompile(`(?i)\b[a-z]+-\d{1,5}\b`)

// ExtractIssueIDs returns every issue-tracker identifier found in text,
// uppercased and deduplicated, in order of first appearance.
func ExtractIssueIDs(text string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, m := range issueIDPattern.FindAllString(text, -1) {
		id := strings.ToUpper(m)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ExtractIssueURLs returns every full tracker URL under base found verbatim
// in text, deduplicated, in order of first appearance.
func ExtractIssueURLs(text, base string) []string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return nil
	}
	re := regexp.MustCompile(regexp.QuoteMeta(base) + `/[A-Za-z]+-\d{1,5}\b`)
	var urls []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(text, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}
