// Package command interprets short imperative sentences ("muda o prazo do
// projeto X para amanhã") as deterministic record mutations, bypassing the
// generative assistant when an intent is recognized.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gestor/dates"
	"gestor/ingest"
	"gestor/records"
)

// Result is the outcome of an executed (or failed) command. Executed is
// only true after the mutation has been durably applied.
type Result struct {
	Executed bool   `json:"executado"`
	Message  string `json:"mensagem"`
}

// ErrNoCommand signals that no intent pattern matched. It is not a
// failure: the caller falls through to the assistant.
var ErrNoCommand = errors.New("command: no pattern matched")

// Config configures the parser.
type Config struct {
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Parser matches sentences against an ordered intent list.
type Parser struct {
	store    records.Repository
	ingestor *ingest.Service
	dates    *dates.Parser
	intents  []intent
	logger   *slog.Logger
}

// New creates a Parser over the given store and ingestion service.
func New(store records.Repository, ingestor *ingest.Service, cfg Config) *Parser {
	cfg.defaults()
	p := &Parser{
		store:    store,
		ingestor: ingestor,
		dates:    dates.NewParser(),
		logger:   cfg.Logger.With("component", "command"),
	}
	p.intents = p.buildIntents()
	return p
}

// Execute tries the intent patterns top to bottom; the first match consumes
// the sentence. No match returns ErrNoCommand. A matched handler never
// fails past this boundary: errors become {executado:false, mensagem}.
func (p *Parser) Execute(ctx context.Context, text string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("command handler panicked", "panic", fmt.Sprint(r))
			res = &Result{Executed: false, Message: fmt.Sprintf("Erro ao executar o comando: %v", r)}
			err = nil
		}
	}()

	for _, in := range p.intents {
		m := in.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		p.logger.Debug("intent matched", "intent", in.name)
		return in.handle(ctx, text, m), nil
	}
	return nil, ErrNoCommand
}

func fail(format string, args ...any) *Result {
	return &Result{Executed: false, Message: fmt.Sprintf(format, args...)}
}

func ok(format string, args ...any) *Result {
	return &Result{Executed: true, Message: fmt.Sprintf(format, args...)}
}

// parseDeadline resolves a date phrase against today, preferring future
// readings of relative expressions.
func (p *Parser) parseDeadline(phrase string) (time.Time, bool) {
	t, err := p.dates.Parse(phrase, time.Now())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

const dateDisplay = "02/01/2006"
