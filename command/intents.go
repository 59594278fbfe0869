package command

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gestor/ingest"
	"gestor/records"
)

// intent pairs a declarative pattern with its handler. Patterns are tested
// in declaration order; the first match wins and later entries are never
// tried, so more specific patterns ("muda o prazo da tarefa") come before
// looser ones ("muda tarefa").
type intent struct {
	name   string
	re     *regexp.Regexp
	handle func(ctx context.Context, text string, m []string) *Result
}

var urlRe = regexp.MustCompile(`https?://[^\s<>"']+`)

func (p *Parser) buildIntents() []intent {
	return []intent{
		{
			name:   "project-deadline",
			re:     regexp.MustCompile(`(?i)muda[r]? o prazo do projeto (.+?) para (.+)$`),
			handle: p.projectDeadline,
		},
		{
			name:   "task-deadline",
			re:     regexp.MustCompile(`(?i)muda[r]? o prazo da tarefa (.+?) para (.+)$`),
			handle: p.taskDeadline,
		},
		{
			name:   "task-percent",
			re:     regexp.MustCompile(`(?i)muda[r]? a porcentagem da tarefa (.+?) para (-?\d+)\s*%?$`),
			handle: p.taskPercent,
		},
		{
			name:   "task-priority",
			re:     regexp.MustCompile(`(?i)muda[r]? a prioridade da tarefa (.+?) para (baixa|m[ée]dia|alta)$`),
			handle: p.taskPriority,
		},
		{
			name:   "add-task",
			re:     regexp.MustCompile(`(?i)adiciona[r]? a tarefa ['"]?(.+?)['"]? no projeto (.+?), (.+?) vai ser [ao] respons[áa]vel`),
			handle: p.addTask,
		},
		{
			name:   "task-assignee",
			re:     regexp.MustCompile(`(?i)(atribui|muda) (?:a )?tarefa (.+?) para (.+)$`),
			handle: p.taskAssignee,
		},
		{
			name:   "task-status",
			re:     regexp.MustCompile(`(?i)marca[r]? a tarefa (.+?) como (conclu[íi]da|em andamento|congelada|n[ãa]o iniciada)$`),
			handle: p.taskStatus,
		},
		{
			name:   "ingest-link",
			re:     urlRe,
			handle: p.ingestLink,
		},
	}
}

func (p *Parser) projectDeadline(ctx context.Context, _ string, m []string) *Result {
	name, phrase := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])

	project, err := p.store.ResolveProject(ctx, name)
	if err != nil {
		return fail("Projeto '%s' não encontrado.", name)
	}
	deadline, ok2 := p.parseDeadline(phrase)
	if !ok2 {
		return fail("Não entendi a data '%s'.", phrase)
	}

	project.Deadline = &deadline
	if err := p.store.SaveProject(ctx, project); err != nil {
		return fail("Erro ao salvar o projeto: %v", err)
	}
	if err := p.rollupProject(ctx, project.ID); err != nil {
		p.logger.Warn("rollup failed", "project", project.ID, "error", err)
	}
	return ok("Prazo do projeto '%s' atualizado para %s.", project.Name, deadline.Format(dateDisplay))
}

func (p *Parser) taskDeadline(ctx context.Context, _ string, m []string) *Result {
	name, phrase := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])

	task, err := p.store.ResolveTask(ctx, name)
	if err != nil {
		return fail("Tarefa '%s' não encontrada.", name)
	}
	deadline, ok2 := p.parseDeadline(phrase)
	if !ok2 {
		return fail("Não entendi a data '%s'.", phrase)
	}

	task.EndDate = deadline
	if err := p.store.SaveTask(ctx, task); err != nil {
		return fail("Erro ao salvar a tarefa: %v", err)
	}
	return ok("Prazo da tarefa '%s' atualizado para %s.", task.Name, deadline.Format(dateDisplay))
}

func (p *Parser) taskPercent(ctx context.Context, _ string, m []string) *Result {
	name := strings.TrimSpace(m[1])
	pct, _ := strconv.Atoi(m[2])
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	task, err := p.store.ResolveTask(ctx, name)
	if err != nil {
		return fail("Tarefa '%s' não encontrada.", name)
	}

	applyPercent(task, pct)
	if err := p.store.SaveTask(ctx, task); err != nil {
		return fail("Erro ao salvar a tarefa: %v", err)
	}
	if err := p.rollupProject(ctx, task.ProjectID); err != nil {
		p.logger.Warn("rollup failed", "project", task.ProjectID, "error", err)
	}
	return ok("Porcentagem da tarefa '%s' atualizada para %d%%.", task.Name, pct)
}

func (p *Parser) taskPriority(ctx context.Context, _ string, m []string) *Result {
	name := strings.TrimSpace(m[1])
	priority, ok2 := records.ParsePriority(m[2])
	if !ok2 {
		return fail("Prioridade '%s' inválida.", m[2])
	}

	task, err := p.store.ResolveTask(ctx, name)
	if err != nil {
		return fail("Tarefa '%s' não encontrada.", name)
	}

	task.Priority = priority
	if err := p.store.SaveTask(ctx, task); err != nil {
		return fail("Erro ao salvar a tarefa: %v", err)
	}
	return ok("Prioridade da tarefa '%s' atualizada para %s.", task.Name, string(priority))
}

func (p *Parser) addTask(ctx context.Context, _ string, m []string) *Result {
	taskName, projName, personToken := strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])

	project, err := p.store.ResolveProject(ctx, projName)
	if err != nil {
		return fail("Projeto '%s' não encontrado.", projName)
	}
	person, err := p.store.ResolvePerson(ctx, personToken)
	if err != nil {
		return fail("Responsável '%s' não encontrado.", personToken)
	}

	task := &records.Task{
		ProjectID:  project.ID,
		AssigneeID: person.ID,
		Name:       taskName,
		Status:     records.StatusNotStarted,
		EndDate:    time.Now().AddDate(0, 0, 7),
	}
	if err := p.store.InsertTask(ctx, task); err != nil {
		return fail("Erro ao criar a tarefa: %v", err)
	}
	return ok("Tarefa '%s' criada no projeto '%s' e atribuída a %s %s.",
		taskName, project.Name, person.FirstName, person.LastName)
}

func (p *Parser) taskAssignee(ctx context.Context, _ string, m []string) *Result {
	name, personToken := strings.TrimSpace(m[2]), strings.TrimSpace(m[3])

	task, err := p.store.ResolveTask(ctx, name)
	if err != nil {
		return fail("Tarefa '%s' não encontrada.", name)
	}
	person, err := p.store.ResolvePerson(ctx, personToken)
	if err != nil {
		return fail("Responsável '%s' não encontrado.", personToken)
	}

	task.AssigneeID = person.ID
	if err := p.store.SaveTask(ctx, task); err != nil {
		return fail("Erro ao salvar a tarefa: %v", err)
	}
	return ok("Responsável da tarefa '%s' atualizado para %s %s.", task.Name, person.FirstName, person.LastName)
}

func (p *Parser) taskStatus(ctx context.Context, _ string, m []string) *Result {
	name := strings.TrimSpace(m[1])
	status, ok2 := records.ParseStatus(m[2])
	if !ok2 {
		return fail("Status '%s' inválido.", m[2])
	}

	task, err := p.store.ResolveTask(ctx, name)
	if err != nil {
		return fail("Tarefa '%s' não encontrada.", name)
	}

	task.Status = status
	switch status {
	case records.StatusDone:
		applyPercent(task, 100)
	case records.StatusNotStarted:
		applyPercent(task, 0)
	}
	if err := p.store.SaveTask(ctx, task); err != nil {
		return fail("Erro ao salvar a tarefa: %v", err)
	}
	if err := p.rollupProject(ctx, task.ProjectID); err != nil {
		p.logger.Warn("rollup failed", "project", task.ProjectID, "error", err)
	}
	return ok("Tarefa '%s' marcada como %s.", task.Name, string(status))
}

// ingestLink dispatches the sentence's URL through the ingestion pipeline.
// The URL sharing a line with the rest of the request wins; failing that,
// the first URL anywhere in the message.
func (p *Parser) ingestLink(ctx context.Context, text string, _ []string) *Result {
	link := ""
	for _, line := range strings.Split(text, "\n") {
		if u := urlRe.FindString(line); u != "" && strings.TrimSpace(line) != u {
			link = u
			break
		}
	}
	if link == "" {
		link = urlRe.FindString(text)
	}

	result, err := p.ingestor.IngestURL(ctx, link)
	if err != nil {
		return fail("Erro ao processar o link: %v", err)
	}
	if out, isOutcome := result.(*ingest.Outcome); isOutcome {
		return ok("Link processado: %d registros criados, %d erros.", out.Created, len(out.Errors))
	}
	return ok("Link processado.")
}

// applyPercent sets a task's completion percentage and the state derived
// from it. Only a 100% task carries a completion time.
func applyPercent(task *records.Task, pct int) {
	task.Percent = pct
	task.Status = records.StatusForPercent(pct)
	if pct >= 100 {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
}
