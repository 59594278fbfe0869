package docpipe

import "log/slog"

// Config configures the document pipeline.
type Config struct {
	// MaxTextLen caps extracted text, in runes (default: 12000). Bounds
	// downstream storage of description fields filled from documents.
	MaxTextLen int `json:"max_text_len" yaml:"max_text_len"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxTextLen <= 0 {
		c.MaxTextLen = 12000
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
