// Package assistant renders a user's pending work into a context string
// and asks a black-box text-completion collaborator for a conversational
// answer. The deterministic command path short-circuits it.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gestor/records"
)

// Completer is the text-completion collaborator: a context-bearing prompt
// in, prose out. The prose itself is outside this package's contract.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config configures the assistant.
type Config struct {
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Assistant answers free-form questions about a user's tasks.
type Assistant struct {
	store     records.Repository
	completer Completer
	logger    *slog.Logger
}

// New creates an Assistant over the given store and completer.
func New(store records.Repository, completer Completer, cfg Config) *Assistant {
	cfg.defaults()
	return &Assistant{store: store, completer: completer, logger: cfg.Logger.With("component", "assistant")}
}

// Ask resolves the user, gathers their pending tasks ordered by priority
// and asks the completer. A completer failure degrades to an apology, not
// an error: the chat surface always answers.
func (a *Assistant) Ask(ctx context.Context, userToken, question string) (string, error) {
	person, err := a.store.ResolvePerson(ctx, userToken)
	if err != nil {
		return "", fmt.Errorf("resolve user %q: %w", userToken, err)
	}

	tasks, err := a.store.PendingTasksByAssignee(ctx, person.ID)
	if err != nil {
		return "", fmt.Errorf("load tasks: %w", err)
	}

	prompt := a.buildPrompt(ctx, person, tasks, question)
	answer, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("completer failed", "error", err)
		return "Desculpe, tive um problema ao tentar gerar sua resposta. Por favor, tente novamente.", nil
	}
	return answer, nil
}

// buildPrompt assembles the persona, the user's task context and the
// question into one master prompt.
func (a *Assistant) buildPrompt(ctx context.Context, person *records.Person, tasks []*records.Task, question string) string {
	var b strings.Builder
	b.WriteString("**PERSONA:** Você é o 'Ache', um assistente de produtividade virtual da empresa.\n\n")
	b.WriteString("**TOM E ESTILO:**\n")
	b.WriteString("- Seja sempre polido, positivo e prestativo.\n")
	b.WriteString("- Use uma linguagem clara, simples e amigável. Evite jargões técnicos.\n")
	b.WriteString("- Comece sempre se dirigindo ao funcionário pelo nome.\n\n")
	fmt.Fprintf(&b, "**CONTEXTO ATUAL:** O funcionário '%s' perguntou: %s\n", person.FirstName, question)
	b.WriteString("As tarefas pendentes dele, mais urgentes primeiro:\n\n")
	b.WriteString(a.TaskContext(ctx, tasks))
	fmt.Fprintf(&b, "\n**TAREFA:** Com base nos dados acima, gere uma resposta conversacional para o '%s', sugerindo uma ordem para atacar as tarefas mais críticas.\n", person.FirstName)
	return b.String()
}

// TaskContext renders tasks as one line each, for prompt embedding.
func (a *Assistant) TaskContext(ctx context.Context, tasks []*records.Task) string {
	if len(tasks) == 0 {
		return "(nenhuma tarefa pendente)\n"
	}

	var b strings.Builder
	for _, t := range tasks {
		projectName := ""
		if p, err := a.store.ProjectByID(ctx, t.ProjectID); err == nil && p != nil {
			projectName = p.Name
		}
		fmt.Fprintf(&b, "- [%s] %s (projeto %s, prazo %s, %d%%)\n",
			string(t.Priority), t.Name, projectName, t.EndDate.Format("02/01/2006"), t.Percent)
	}
	return b.String()
}
