// Package docpipe extracts plain text and hyperlinks from document bytes.
//
// Supported formats:
//   - .pdf: PDF text extraction (pure Go, content-stream decoding) with a
//     two-stage fallback chain
//   - .docx: Microsoft Word (archive/zip, word/document.xml), including
//     hyperlink relationship targets
//   - .html: HTML pages (markdown conversion with plain-text fallback),
//     including anchor targets
//
// All parsers are pure Go, CGO_ENABLED=0 compatible. Extraction works on
// in-memory bytes: documents arrive from uploads or HTTP fetches and are
// never spooled to disk.
package docpipe

import (
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
)

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg      Config
	logger   *slog.Logger
	md       *converter.Converter
	sanitize *bluemonday.Policy
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		sanitize: bluemonday.UGCPolicy(),
	}
}

// Detect returns the document format from a file name's extension, falling
// back to the declared content type when the extension is unknown.
func (p *Pipeline) Detect(name, contentType string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/pdf":
			return FormatPDF, nil
		case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
			return FormatDocx, nil
		case "text/html":
			return FormatHTML, nil
		}
	}

	return "", fmt.Errorf("%w: %q (%s)", ErrUnknownFormat, name, contentType)
}

// Truncate caps text at the pipeline's configured limit, appending a
// truncation marker when content was dropped.
func (p *Pipeline) Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= p.cfg.MaxTextLen {
		return text
	}
	return string(runes[:p.cfg.MaxTextLen]) + truncationMarker
}
