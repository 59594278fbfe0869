// Package dates parses the date expressions accepted across ingestion and
// commands: explicit Brazilian and ISO layouts first, then natural-language
// phrases ("amanhã", "próxima sexta") relative to a reference time.
package dates

import (
	"errors"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnparsable is returned when no layout nor language rule matched.
var ErrUnparsable = errors.New("dates: unparsable expression")

// layouts are tried in order before natural-language parsing. Day-first
// forms come first so "02/03" reads as 2 March, not 3 February.
var layouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-2006",
}

type Parser struct {
	w *when.Parser
}

func NewParser() *Parser {
	w := when.New(nil)
	w.Add(br.All...)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// Parse resolves an expression to a calendar date. Relative phrases are
// resolved against now.
func (p *Parser) Parse(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, ErrUnparsable
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}

	if r, err := p.w.Parse(expr, now); err == nil && r != nil {
		return midnight(r.Time), nil
	}
	// Retry with accents folded: "amanhã" and "amanha" must both resolve.
	if folded := foldAccents(expr); folded != expr {
		if r, err := p.w.Parse(folded, now); err == nil && r != nil {
			return midnight(r.Time), nil
		}
	}
	return time.Time{}, ErrUnparsable
}

var accentFolder = strings.NewReplacer(
	"á", "a", "â", "a", "ã", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

func foldAccents(s string) string {
	return accentFolder.Replace(strings.ToLower(s))
}

// midnight truncates to the calendar date in the time's own location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
