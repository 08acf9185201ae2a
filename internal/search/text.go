package search

// TruncateRunes cuts s to at most n runes. Counting runes rather than bytes
// keeps Cyrillic snippets from being split mid-character.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Ellipsize cuts s to at most n runes, appending "..." when truncation
// happened.
func Ellipsize(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
