package registration

import "strings"

// MaxBriefWords caps the company profile overview.
const MaxBriefWords = 500

// CountWords counts whitespace separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateWords keeps the first max words joined by single spaces. The text is
// returned unchanged when it is within the limit.
func TruncateWords(text string, max int) (string, bool) {
	words := strings.Fields(text)
	if len(words) <= max {
		return text, false
	}
	return strings.Join(words[:max], " "), true
}
