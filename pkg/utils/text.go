// Package utils holds small helpers shared across packages: display
// truncation, vector math, and zap logger construction.
package utils

import "unicode/utf8"

// Truncate caps s at maxLen characters and appends "..." when anything was
// cut. The limit counts runes, not bytes, so multi-byte text is never split
// mid-character. A zero or negative maxLen leaves s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
