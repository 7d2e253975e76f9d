package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseSpace trims a string and collapses internal whitespace runs
// to single spaces. Question labels exported from survey platforms
// tend to carry stray newlines and double spaces.
func CollapseSpace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizeName lowercases and strips all whitespace, for loose
// matching of column and survey names.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return whitespaceRegex.ReplaceAllString(name, "")
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, NormalizeName(m)) {
			return true
		}
	}
	return false
}
