package docpipe

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// maxXMLDepth bounds XML nesting (billion-laughs / deeply nested bombs).
const maxXMLDepth = 256

// DocxText extracts paragraph text from .docx bytes by reading
// word/document.xml from the ZIP archive. Paragraphs are joined with
// newlines; empty paragraphs are dropped.
func (p *Pipeline) DocxText(data []byte) (string, error) {
	rc, err := openZipEntry(data, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	depth := 0

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", fmt.Errorf("document.xml exceeds nesting depth %d", maxXMLDepth)
			}
			if t.Name.Local == "p" {
				inParagraph = true
				current.Reset()
			}
		case xml.CharData:
			if inParagraph {
				current.Write(t)
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

// DocxLinks returns the external hyperlink targets of a .docx file, read
// from the document's relationship metadata. Order is first-seen, duplicates
// removed. A document without hyperlinks yields an empty list, not an error.
func (p *Pipeline) DocxLinks(data []byte) ([]string, error) {
	rc, err := openZipEntry(data, "word/_rels/document.xml.rels")
	if err != nil {
		// A docx without relationship metadata simply has no links.
		if strings.Contains(err.Error(), "not found") {
			return nil, nil
		}
		return nil, err
	}
	defer rc.Close()

	var rels struct {
		Relationships []struct {
			Type   string `xml:"Type,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.NewDecoder(rc).Decode(&rels); err != nil {
		return nil, fmt.Errorf("parse document.xml.rels: %w", err)
	}

	var links []string
	seen := make(map[string]bool)
	for _, rel := range rels.Relationships {
		if !strings.HasSuffix(rel.Type, "/hyperlink") {
			continue
		}
		target := strings.TrimSpace(rel.Target)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		links = append(links, target)
	}
	return links, nil
}

// openZipEntry opens one named file inside ZIP bytes.
func openZipEntry(data []byte, name string) (io.ReadCloser, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
