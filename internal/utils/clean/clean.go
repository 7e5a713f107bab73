package utils

import (
	"regexp"
	"strings"
)

var (
	newlines  = regexp.MustCompile(`\s*\n+\s*`)
	nonLetter = regexp.MustCompile(`[^\p{L}\p{N}\p{P}\p{Z}]`)
)

// Clean flattens a joke body to a single indexable line. Two-part jokes
// carry their punchline on a separate line, so newlines collapse to a
// single space before control characters are stripped.
func Clean(text string) string {
	text = newlines.ReplaceAllString(text, " ")
	text = nonLetter.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
