package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractUpload_plain(t *testing.T) {
	e := NewExtractor(1024, 100)
	got := e.ExtractUpload(UploadedFile{Name: "notes.md", Data: []byte("# Notes\nSome text")})
	if got != "# Notes\nSome text" {
		t.Errorf("got %q", got)
	}
}

func TestExtractUpload_unsupportedType(t *testing.T) {
	e := NewExtractor(1024, 100)
	got := e.ExtractUpload(UploadedFile{Name: "binary.exe", Data: []byte{0x00}})
	if got != "[Unsupported file type: .exe]" {
		t.Errorf("got %q", got)
	}
}

func TestExtractUpload_tooLarge(t *testing.T) {
	e := NewExtractor(10, 100)
	got := e.ExtractUpload(UploadedFile{Name: "big.txt", Data: []byte("this is more than ten bytes")})
	if got != "[File too large: 27 bytes, max 10 bytes]" {
		t.Errorf("got %q", got)
	}
}

func TestExtractUpload_extractionError(t *testing.T) {
	e := NewExtractor(1024, 100)
	got := e.ExtractUpload(UploadedFile{Name: "broken.docx", Data: []byte("not a zip")})
	if !strings.HasPrefix(got, "[Error reading file:") {
		t.Errorf("got %q", got)
	}
}

func TestExtractUpload_truncation(t *testing.T) {
	e := NewExtractor(1024, 10)
	got := e.ExtractUpload(UploadedFile{Name: "long.txt", Data: []byte("abcdefghijklmnop")})
	want := "abcdefghij\n[... truncated, 6 chars omitted ...]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractUpload_truncationCountsRunes(t *testing.T) {
	// Eight two-byte runes with a limit of 5. A byte-based cut would land
	// mid-rune and report omitted bytes instead of characters.
	e := NewExtractor(1024, 5)
	got := e.ExtractUpload(UploadedFile{Name: "unicode.txt", Data: []byte("åäöåäöåä")})
	want := "åäöåä\n[... truncated, 3 chars omitted ...]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
}

func TestProcessUploads(t *testing.T) {
	e := NewExtractor(1024, 100)
	got := e.ProcessUploads([]UploadedFile{
		{Name: "a.txt", Data: []byte("first")},
		{Name: "b.exe", Data: []byte{0x00}},
	})
	want := "=== File: a.txt ===\nfirst\n\n=== File: b.exe ===\n[Unsupported file type: .exe]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProcessUploads_empty(t *testing.T) {
	e := NewExtractor(1024, 100)
	if got := e.ProcessUploads(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
