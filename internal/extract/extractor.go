// Package extract turns uploaded files into plain text for prompt context.
package extract

import (
	"strings"
)

// textExtensions are extensions handled as plain UTF-8 text.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".rst":  true,
	".json": true,
	".js":   true,
	".ts":   true,
	".tsx":  true,
	".jsx":  true,
	".py":   true,
	".go":   true,
	".css":  true,
	".html": true,
	".xml":  true,
	".yaml": true,
	".yml":  true,
	".csv":  true,
}

// Extractor extracts text from uploaded files, enforcing per-file size and
// character limits.
type Extractor struct {
	maxFileBytes int64
	maxFileChars int
}

// NewExtractor returns an extractor enforcing the given limits.
func NewExtractor(maxFileBytes int64, maxFileChars int) *Extractor {
	return &Extractor{
		maxFileBytes: maxFileBytes,
		maxFileChars: maxFileChars,
	}
}

// Supported reports whether ext (with leading dot, any case) can be extracted.
func (e *Extractor) Supported(ext string) bool {
	ext = strings.ToLower(ext)
	if textExtensions[ext] {
		return true
	}
	switch ext {
	case ".pdf", ".docx", ".xlsx":
		return true
	}
	return false
}

// ExtractBytes extracts text from content based on ext (with leading dot).
// Unsupported extensions are an error; callers decide how to surface that.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)
	switch {
	case ext == ".pdf":
		return extractPDF(content)
	case ext == ".docx":
		return extractDOCX(content)
	case ext == ".xlsx":
		return extractExcel(content)
	case textExtensions[ext]:
		return extractPlain(content)
	default:
		return "", &UnsupportedTypeError{Ext: ext}
	}
}

// UnsupportedTypeError reports a file extension the extractor cannot handle.
type UnsupportedTypeError struct {
	Ext string
}

func (e *UnsupportedTypeError) Error() string {
	return "unsupported file type: " + e.Ext
}
