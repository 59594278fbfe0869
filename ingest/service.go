// Package ingest turns heterogeneous sources (spreadsheets, delimited
// text, link-bearing documents, web pages) into persisted work-item
// records, with a per-row partial-failure contract.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"strings"
	"sync"

	"gestor/dates"
	"gestor/docpipe"
	"gestor/ingest/internal/fetch"
	"gestor/records"
	"gestor/tabular"
)

// Config configures the ingestion service.
type Config struct {
	Fetch fetch.Config
	Docs  docpipe.Config
	// DisablePDFHowTo turns off filling a task's blank "Como fazer?"
	// field from its reference-document PDF.
	DisablePDFHowTo bool
	Logger          *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Service is the ingestion pipeline.
type Service struct {
	store   records.Repository
	fetcher *fetch.Fetcher
	docs    *docpipe.Pipeline
	dates   *dates.Parser
	cfg     Config
	logger  *slog.Logger
}

// New creates a Service backed by the given record store.
func New(store records.Repository, cfg Config) *Service {
	cfg.defaults()
	return &Service{
		store:   store,
		fetcher: fetch.New(cfg.Fetch),
		docs:    docpipe.New(cfg.Docs),
		dates:   dates.NewParser(),
		cfg:     cfg,
		logger:  cfg.Logger.With("component", "ingest"),
	}
}

// IngestFile ingests an uploaded payload. The filename's extension picks
// the format. The result is an *Outcome for tabular content, a *LinkBatch
// for link-bearing documents, or an *Extract for plain document text.
func (s *Service) IngestFile(ctx context.Context, filename string, data []byte) (any, error) {
	return s.ingestBytes(ctx, filename, "", data)
}

// IngestURL fetches and ingests one remote source. Google Sheets share
// links are rewritten to their CSV export form first.
func (s *Service) IngestURL(ctx context.Context, rawURL string) (any, error) {
	rawURL = tabular.RewriteSheetsURL(rawURL)
	name := urlFilename(rawURL)

	var res *fetch.Result
	var err error
	if binaryExt(name) {
		res, err = s.fetcher.Document(ctx, rawURL)
	} else {
		res, err = s.fetcher.Page(ctx, rawURL)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}

	if tabular.IsSheetsURL(rawURL) {
		d, err := tabular.ReadCSV(res.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return s.ingestDataset(ctx, d)
	}
	return s.ingestBytes(ctx, name, res.ContentType, res.Body)
}

// IngestDocs ingests several independent document URLs concurrently. One
// failing document never aborts its siblings.
func (s *Service) IngestDocs(ctx context.Context, urls []string) *DocBatch {
	batch := &DocBatch{Processed: len(urls), Results: make([]DocResult, len(urls))}

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			result, err := s.IngestURL(ctx, u)
			if err != nil {
				s.logger.Warn("document failed", "url", u, "error", err)
				batch.Results[i] = DocResult{DocURL: u, OK: false, Err: err.Error()}
				return
			}
			batch.Results[i] = DocResult{DocURL: u, OK: true, Result: result}
		}(i, u)
	}
	wg.Wait()
	return batch
}

// ingestBytes dispatches on the sniffed format.
func (s *Service) ingestBytes(ctx context.Context, filename, contentType string, data []byte) (any, error) {
	switch sniffFormat(filename, contentType) {
	case "csv":
		d, err := tabular.ReadCSV(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return s.ingestDataset(ctx, d)

	case "xlsx":
		d, err := tabular.ReadXLSX(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return s.ingestDataset(ctx, d)

	case "docx":
		links, err := s.docs.DocxLinks(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if len(links) == 0 {
			text, terr := s.docs.DocxText(data)
			if terr != nil {
				return nil, fmt.Errorf("%w: %v", ErrParse, terr)
			}
			return &Extract{Type: "docx", Text: s.docs.Truncate(text)}, nil
		}
		return s.ingestLinks(ctx, links), nil

	case "pdf":
		return &Extract{Type: "pdf", Text: s.docs.PDFText(data)}, nil

	default: // html and anything served as text
		if d, err := tabular.ReadHTMLTable(data); err == nil {
			return s.ingestDataset(ctx, d)
		}
		if links := s.docs.HTMLLinks(data); len(links) > 0 {
			return s.ingestLinks(ctx, links), nil
		}
		return &Extract{Type: "html", Text: s.docs.HTMLText(data)}, nil
	}
}

// ingestLinks fetches each link of a document concurrently and ingests the
// tabular resources it finds, one isolated outcome per link.
func (s *Service) ingestLinks(ctx context.Context, links []string) *LinkBatch {
	batch := &LinkBatch{Processed: len(links), Items: make([]LinkItem, len(links))}

	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func(i int, link string) {
			defer wg.Done()
			result, err := s.IngestURL(ctx, link)
			if err != nil {
				s.logger.Warn("link failed", "url", link, "error", err)
				batch.Items[i] = LinkItem{Link: link, Result: err.Error()}
				return
			}
			batch.Items[i] = LinkItem{Link: link, Result: result}
		}(i, link)
	}
	wg.Wait()
	return batch
}

// sniffFormat picks a format from the filename extension, then from the
// declared content type.
func sniffFormat(filename, contentType string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv", ".txt":
		return "csv"
	case ".xlsx", ".xls":
		return "xlsx"
	case ".docx":
		return "docx"
	case ".pdf":
		return "pdf"
	case ".html", ".htm":
		return "html"
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "text/csv":
			return "csv"
		case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
			return "xlsx"
		case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
			return "docx"
		case "application/pdf":
			return "pdf"
		}
	}
	return "html"
}

func binaryExt(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xls", ".docx", ".pdf":
		return true
	}
	return false
}

func urlFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return path.Base(u.Path)
}
