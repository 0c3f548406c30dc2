package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// defaultDocXMLPath is where the document body lives in almost every .docx.
const defaultDocXMLPath = "word/document.xml"

const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

// runText matches <w:t> nodes with or without attributes, such as
// <w:t xml:space="preserve">. Regex over full XML parsing keeps this tolerant
// of the namespace soup real documents carry.
var runText = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// The Override element in [Content_Types].xml may list PartName and
// ContentType in either order.
var (
	mainPartFirst  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)
	mainPartSecond = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

// extractDOCX reads the text runs out of a Word document. A .docx is a zip
// whose main body part is declared in [Content_Types].xml; when that
// declaration is missing or unreadable the conventional path is tried. All
// <w:t> run contents are joined with spaces so the result survives arbitrary
// paragraph and run attributes.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: not a zip: %w", err)
	}

	docPath := mainDocumentPath(zr)
	if docPath == "" {
		docPath = defaultDocXMLPath
	}
	docXML, ok := readZipFile(zr, docPath)
	if !ok {
		return "", fmt.Errorf("open docx: %s not found", docPath)
	}

	matches := runText.FindAllStringSubmatch(string(docXML), -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// mainDocumentPath resolves the document body's part name from
// [Content_Types].xml, without the leading slash. Returns "" when the
// package does not declare one.
func mainDocumentPath(zr *zip.Reader) string {
	types, ok := readZipFile(zr, "[Content_Types].xml")
	if !ok {
		return ""
	}
	for _, re := range []*regexp.Regexp{mainPartFirst, mainPartSecond} {
		if m := re.FindSubmatch(types); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return ""
}

func readZipFile(zr *zip.Reader, name string) ([]byte, bool) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		_ = rc.Close()
		if err != nil {
			return nil, false
		}
		return buf.Bytes(), true
	}
	return nil, false
}
