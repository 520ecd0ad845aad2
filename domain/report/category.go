// Package report categorizes tagged commits and retains the most recent few
// per category for display.
package report

import (
	"regexp"
	"strings"
)

// Rule decides category membership for a tag name. The returned key names
// the category; a tag belongs to at most one category (first match wins).
type Rule interface {
	Match(tagName string) (category string, ok bool)
}

// RegexpRule categorizes by regular expression. The first capture group, when
// present and non-empty, names the category; otherwise the whole match does.
type RegexpRule struct {
	re *regexp.Regexp
}

// NewRegexpRule compiles a RegexpRule from a pattern.
func NewRegexpRule(pattern string) (RegexpRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return RegexpRule{}, err
	}
	return RegexpRule{re: re}, nil
}

// Match applies the rule to a tag name.
func (r RegexpRule) Match(tagName string) (string, bool) {
	m := r.re.FindStringSubmatch(tagName)
	if m == nil || m[0] == "" {
		return "", false
	}
	if len(m) > 1 && m[1] != "" {
		return m[1], true
	}
	return m[0], true
}

// PrefixRule categorizes by a fixed literal prefix.
type PrefixRule struct {
	prefix string
}

// NewPrefixRule creates a PrefixRule.
func NewPrefixRule(prefix string) PrefixRule {
	return PrefixRule{prefix: prefix}
}

// Match applies the rule to a tag name.
func (r PrefixRule) Match(tagName string) (string, bool) {
	if r.prefix == "" || !strings.HasPrefix(tagName, r.prefix) {
		return "", false
	}
	return r.prefix, true
}
