package utils

import "strings"

// TruncateForLog trims s and cuts it to at most limit runes, marking a cut with
// "...". Cuts never split a multi-byte rune.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.TrimSpace(s)
	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
