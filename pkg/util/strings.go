package util

import "strings"

// FirstNonEmpty returns the first value that is non-empty after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// TruncateRunes bounds s to at most limit runes, replacing the final rune
// with an ellipsis when truncation happens.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
