package skills

import (
	"strings"
	"unicode/utf8"
)

// Snippet extracts a context window centered on the matched span. The window
// is measured in runes so Cyrillic text is never cut mid-character; ellipses
// mark truncation on either side.
func Snippet(text string, span Span, window int) string {
	if text == "" || window <= 0 {
		return ""
	}

	runes := []rune(text)
	startR := utf8.RuneCountInString(text[:span.Start])
	endR := startR + utf8.RuneCountInString(text[span.Start:span.End])

	center := (startR + endR) / 2
	half := window / 2
	left := center - half
	if left < 0 {
		left = 0
	}
	right := center + half
	if right > len(runes) {
		right = len(runes)
	}

	snippet := strings.TrimSpace(string(runes[left:right]))
	if left > 0 {
		snippet = "..." + snippet
	}
	if right < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}
