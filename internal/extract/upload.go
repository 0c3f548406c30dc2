package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// UploadedFile is one file from a multipart upload.
type UploadedFile struct {
	Name string
	Data []byte
}

// ExtractUpload extracts text from a single uploaded file. It never fails:
// unsupported types, oversize files, and extraction errors become bracketed
// placeholder text so one bad file cannot sink the whole upload.
func (e *Extractor) ExtractUpload(f UploadedFile) string {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !e.Supported(ext) {
		return fmt.Sprintf("[Unsupported file type: %s]", ext)
	}
	if int64(len(f.Data)) > e.maxFileBytes {
		return fmt.Sprintf("[File too large: %d bytes, max %d bytes]", len(f.Data), e.maxFileBytes)
	}
	text, err := e.ExtractBytes(f.Data, ext)
	if err != nil {
		return fmt.Sprintf("[Error reading file: %v]", err)
	}
	return e.truncate(text)
}

// ProcessUploads extracts every file and frames each under a header so the
// model can tell the files apart. Returns "" when files is empty.
func (e *Extractor) ProcessUploads(files []UploadedFile) string {
	if len(files) == 0 {
		return ""
	}
	sections := make([]string, 0, len(files))
	for _, f := range files {
		sections = append(sections, fmt.Sprintf("=== File: %s ===\n%s", f.Name, e.ExtractUpload(f)))
	}
	return strings.Join(sections, "\n\n")
}

// truncate caps text at the per-file character limit, noting how much was
// cut. The limit counts runes so a multi-byte character at the boundary is
// dropped whole, never split.
func (e *Extractor) truncate(text string) string {
	if utf8.RuneCountInString(text) <= e.maxFileChars {
		return text
	}
	runes := []rune(text)
	omitted := len(runes) - e.maxFileChars
	return string(runes[:e.maxFileChars]) + fmt.Sprintf("\n[... truncated, %d chars omitted ...]", omitted)
}
