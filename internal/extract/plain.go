package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain passes text files through unchanged, replacing any invalid
// UTF-8 sequences with the replacement character so downstream prompt
// assembly always sees valid text.
func extractPlain(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	return strings.ToValidUTF8(string(content), "�"), nil
}
