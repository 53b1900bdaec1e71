package util

import "strings"

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut. Newlines are collapsed so the result stays single-line.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
