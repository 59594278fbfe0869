// Package fetch implements HTTP retrieval of ingestion sources.
//
// Spreadsheet exports and pages use a short timeout; binary documents
// (PDF, DOCX, XLSX downloads) get a longer one.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Result contains the outcome of a fetch.
type Result struct {
	Body        []byte
	StatusCode  int
	ContentType string // from response header
	FinalURL    string // after redirects
}

// Config configures the fetcher.
type Config struct {
	TextTimeout   time.Duration // pages and CSV exports. Default: 20s.
	BinaryTimeout time.Duration // document downloads. Default: 60s.
	MaxBytes      int64         // Max response body size. Default: 25MB.
	// UserAgent sent with requests.
	UserAgent string
}

func (c *Config) defaults() {
	if c.TextTimeout <= 0 {
		c.TextTimeout = 20 * time.Second
	}
	if c.BinaryTimeout <= 0 {
		c.BinaryTimeout = 60 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 25 * 1024 * 1024 // 25MB
	}
	if c.UserAgent == "" {
		c.UserAgent = "gestor/1.0"
	}
}

// Fetcher performs HTTP GETs for the ingestion pipeline.
type Fetcher struct {
	text   *http.Client
	binary *http.Client
	config Config
}

// New creates a Fetcher. Both clients cap redirect chains and refuse
// non-http(s) schemes.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	redirect := func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return fmt.Errorf("too many redirects (%d)", len(via))
		}
		if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
			return fmt.Errorf("redirect to unsupported scheme %q", req.URL.Scheme)
		}
		return nil
	}
	return &Fetcher{
		text:   &http.Client{Timeout: cfg.TextTimeout, CheckRedirect: redirect},
		binary: &http.Client{Timeout: cfg.BinaryTimeout, CheckRedirect: redirect},
		config: cfg,
	}
}

// Page retrieves a URL with the short text timeout.
func (f *Fetcher) Page(ctx context.Context, rawURL string) (*Result, error) {
	return f.get(ctx, f.text, rawURL)
}

// Document retrieves a URL with the long binary timeout.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*Result, error) {
	return f.get(ctx, f.binary, rawURL)
}

func (f *Fetcher) get(ctx context.Context, client *http.Client, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Result{StatusCode: resp.StatusCode}, fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Result{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
