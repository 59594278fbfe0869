package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gestor/records"
	"gestor/tabular"
)

// ingestDataset routes a dataset by column signature and runs the matching
// per-row ingestor. An unrecognized column set is a dataset-level error.
func (s *Service) ingestDataset(ctx context.Context, d *tabular.Dataset) (*Outcome, error) {
	kind := tabular.Route(d)
	s.logger.Debug("dataset routed", "kind", string(kind), "rows", len(d.Rows))

	switch kind {
	case tabular.KindTask:
		return s.ingestTasks(ctx, d), nil
	case tabular.KindProject:
		return s.ingestProjects(ctx, d), nil
	case tabular.KindPerson:
		return s.ingestPeople(ctx, d), nil
	}
	return nil, fmt.Errorf("%w: colunas %v", ErrSchemaUnknown, d.Columns)
}

// ingestTasks persists task rows one at a time, in source order. A bad row
// becomes an error entry; the batch continues.
func (s *Service) ingestTasks(ctx context.Context, d *tabular.Dataset) *Outcome {
	out := newOutcome(tabular.KindTask)
	for _, row := range tabular.TaskRows(d) {
		if msg := s.ingestTaskRow(ctx, row); msg != "" {
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: %s", row.Index, msg))
			continue
		}
		out.Created++
	}
	return out
}

// ingestTaskRow validates, resolves and persists one task row. A non-empty
// return is the row's error message, without the line prefix.
func (s *Service) ingestTaskRow(ctx context.Context, row tabular.TaskRow) string {
	if row.Project == "" {
		return "'Nome do Projeto' é obrigatório."
	}
	project, err := s.store.ResolveProject(ctx, row.Project)
	if err != nil {
		return fmt.Sprintf("Projeto '%s' não encontrado.", row.Project)
	}

	if row.Assignee == "" {
		return "'Email Responsável' é obrigatório."
	}
	assignee, err := s.store.ResolvePerson(ctx, row.Assignee)
	if err != nil {
		return fmt.Sprintf("Responsável '%s' não encontrado.", row.Assignee)
	}

	if row.Name == "" {
		return "'Nome da Tarefa' é obrigatório."
	}

	pct := parsePercent(row.Percent, row.Done)

	start, end, ok := s.resolveDates(row)
	if !ok {
		return "informe 'Data de Fim' ou 'Prazo' (legado) ou 'Data de Início' + 'Exportação (dias)'."
	}

	// The cell's hyperlink target is the authoritative reference, the
	// displayed text only a fallback.
	refDoc := row.RefDocLink
	if refDoc == "" {
		refDoc = row.RefDoc
	}

	howTo := row.HowTo
	if howTo == "" && !s.cfg.DisablePDFHowTo && strings.HasSuffix(strings.ToLower(refDoc), ".pdf") {
		howTo = s.howToFromPDF(ctx, refDoc)
	}

	task := &records.Task{
		ProjectID:  project.ID,
		AssigneeID: assignee.ID,
		Name:       row.Name,
		HowTo:      howTo,
		Category:   row.Category,
		Phase:      row.Phase,
		RefDoc:     refDoc,
		Percent:    pct,
		Status:     records.StatusForPercent(pct),
		StartDate:  start,
		EndDate:    end,
	}
	if p, ok := records.ParsePriority(row.Priority); ok {
		task.Priority = p
	}
	if c, ok := records.ParseCondition(row.Condition); ok {
		task.Condition = c
	}
	if task.Status == records.StatusDone {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	if err := s.store.InsertTask(ctx, task); err != nil {
		return err.Error()
	}
	return ""
}

// ingestProjects persists project rows.
func (s *Service) ingestProjects(ctx context.Context, d *tabular.Dataset) *Outcome {
	out := newOutcome(tabular.KindProject)
	for _, row := range tabular.ProjectRows(d) {
		if row.Name == "" {
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: 'Nome do Projeto' é obrigatório.", row.Index))
			continue
		}
		project := &records.Project{Name: row.Name}
		if row.Deadline != "" {
			if t, err := s.dates.Parse(row.Deadline, time.Now()); err == nil {
				project.Deadline = &t
			} else {
				out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: não entendi a data '%s'.", row.Index, row.Deadline))
				continue
			}
		}
		if err := s.store.InsertProject(ctx, project); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: %v", row.Index, err))
			continue
		}
		out.Created++
	}
	return out
}

// ingestPeople persists person rows. A row whose e-mail already exists is
// skipped silently: people are the one deduplicated record kind.
func (s *Service) ingestPeople(ctx context.Context, d *tabular.Dataset) *Outcome {
	out := newOutcome(tabular.KindPerson)
	for _, row := range tabular.PersonRows(d) {
		switch {
		case row.FirstName == "":
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: 'Nome' é obrigatório.", row.Index))
			continue
		case row.LastName == "":
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: 'Sobrenome' é obrigatório.", row.Index))
			continue
		case row.Email == "":
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: 'Email' é obrigatório.", row.Index))
			continue
		}

		existing, err := s.store.PersonByEmail(ctx, row.Email)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: %v", row.Index, err))
			continue
		}
		if existing != nil {
			continue
		}

		person := &records.Person{FirstName: row.FirstName, LastName: row.LastName, Email: row.Email}
		if err := s.store.InsertPerson(ctx, person); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("Linha %d: %v", row.Index, err))
			continue
		}
		out.Created++
	}
	return out
}

// resolveDates derives the task's start and end dates. The end date
// cascades: explicit end date, then the legacy deadline column, then start
// date plus an offset in days.
func (s *Service) resolveDates(row tabular.TaskRow) (start *time.Time, end time.Time, ok bool) {
	now := time.Now()

	if row.StartDate != "" {
		if t, err := s.dates.Parse(row.StartDate, now); err == nil {
			start = &t
		}
	}

	if row.EndDate != "" {
		if t, err := s.dates.Parse(row.EndDate, now); err == nil {
			return start, t, true
		}
	}
	if row.Deadline != "" {
		if t, err := s.dates.Parse(row.Deadline, now); err == nil {
			return start, t, true
		}
	}
	if start != nil && row.ExportDays != "" {
		if days, err := strconv.Atoi(strings.TrimSpace(row.ExportDays)); err == nil {
			return start, start.AddDate(0, 0, days), true
		}
	}
	return start, time.Time{}, false
}

// howToFromPDF fetches a reference-document PDF and extracts its text.
// Failure leaves the field unset, never fails the row.
func (s *Service) howToFromPDF(ctx context.Context, docURL string) string {
	res, err := s.fetcher.Document(ctx, docURL)
	if err != nil {
		s.logger.Debug("reference pdf fetch failed", "url", docURL, "error", err)
		return ""
	}
	return s.docs.Truncate(strings.TrimSpace(s.docs.PDFText(res.Body)))
}

// parsePercent reads a completion percentage, falling back to a boolean
// completion column, clamped to [0,100].
func parsePercent(raw, done string) int {
	pct := 0
	if strings.TrimSpace(raw) != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			pct = int(f)
		}
	} else if parseBool(done) {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "sim", "yes", "y", "concluida", "concluído", "done":
		return true
	}
	return false
}
