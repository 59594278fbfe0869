package docpipe

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfExtractor is one strategy in the PDF extraction chain.
type pdfExtractor struct {
	name string
	fn   func([]byte) (string, error)
}

// pdfChain is the ordered fallback chain: the structured pdfcpu extractor
// first, then a raw stream scan that tolerates documents pdfcpu rejects.
var pdfChain = []pdfExtractor{
	{"pdfcpu", extractPDFStructured},
	{"rawscan", extractPDFRaw},
}

// PDFText extracts plain text from PDF bytes. Each extractor in the chain is
// tried in order; the first one producing non-whitespace output wins. When
// every extractor fails or yields nothing, the result is an empty string:
// absence of extractable text is not an error here, it becomes a
// missing-field condition downstream. Output is capped at the configured
// limit with a truncation marker.
func (p *Pipeline) PDFText(data []byte) string {
	for _, ex := range pdfChain {
		text, err := ex.fn(data)
		if err != nil {
			p.logger.Debug("docpipe: pdf extractor failed", "extractor", ex.name, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return p.Truncate(text)
		}
	}
	return ""
}

// extractPDFStructured parses the cross-reference table with pdfcpu and
// decodes each page's content stream.
func extractPDFStructured(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil || len(content) == 0 {
			continue
		}
		pageText := textFromContentStream(content)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(pageText)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return sb.String(), nil
}

// extractPDFRaw is the lower-fidelity fallback: it locates stream objects in
// the raw bytes, inflates the zlib-compressed ones, and runs the same
// operator scan. Uncompressed streams are scanned as-is.
func extractPDFRaw(data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", fmt.Errorf("not a PDF")
	}

	var sb strings.Builder
	rest := data
	for {
		start := bytes.Index(rest, []byte("stream"))
		if start < 0 {
			break
		}
		body := rest[start+len("stream"):]
		// EOL after the stream keyword belongs to the keyword.
		body = bytes.TrimPrefix(body, []byte("\r\n"))
		body = bytes.TrimPrefix(body, []byte("\n"))
		end := bytes.Index(body, []byte("endstream"))
		if end < 0 {
			break
		}
		raw := body[:end]

		content := raw
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			if inflated, err := io.ReadAll(zr); err == nil {
				content = inflated
			}
			zr.Close()
		}
		if text := textFromContentStream(content); text != "" {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(text)
		}

		rest = body[end+len("endstream"):]
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content found in PDF streams")
	}
	return sb.String(), nil
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// textFromContentStream scans PDF content-stream operators for shown text.
// Handles Tj, TJ, and ' show operators plus Td/TD/T* positioning.
func textFromContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return cleanPDFText(sb.String())
}

// decodePDFString handles basic PDF escape sequences, including octal.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// cleanPDFText collapses whitespace runs and drops non-printable runes.
func cleanPDFText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			prevSpace = true
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
