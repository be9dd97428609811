package selection

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName normalizes a saved-selection name for lookups:
// trim, lowercase, collapse internal whitespace to single spaces.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// Preview returns the first PreviewMaxChars runes of content.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewMaxChars {
		return content
	}
	return string([]rune(content)[:PreviewMaxChars])
}
