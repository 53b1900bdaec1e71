package util

import "strings"

// SanitizeText strips NUL bytes and non-printing control characters from
// extracted document text. PDF extractors leak both, and Postgres text
// columns reject NUL outright.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	out := make([]rune, 0, len(s))
	for _, ch := range s {
		switch {
		case ch == '\n' || ch == '\r' || ch == '\t':
			out = append(out, ch)
		case ch < 0x20:
			// includes NUL
		default:
			out = append(out, ch)
		}
	}
	return strings.TrimSpace(string(out))
}
