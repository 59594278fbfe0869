package tabular

// TaskRow holds the raw cell values of one task row. Fields keep the
// source text untouched; parsing and validation happen downstream so a
// bad value can be reported against its row number.
type TaskRow struct {
	Index      int
	Project    string
	Assignee   string
	Name       string
	HowTo      string
	Category   string
	Phase      string
	RefDoc     string
	RefDocLink string
	Priority   string
	Condition  string
	Percent    string
	Done       string
	StartDate  string
	EndDate    string
	Deadline   string
	ExportDays string
}

// ProjectRow holds the raw cell values of one project row.
type ProjectRow struct {
	Index    int
	Name     string
	Deadline string
}

// PersonRow holds the raw cell values of one person row.
type PersonRow struct {
	Index     int
	FirstName string
	LastName  string
	Email     string
}

// TaskRows extracts task rows from a routed dataset. Blank rows are
// dropped; row indexes are preserved for error reporting.
func TaskRows(d *Dataset) []TaskRow {
	out := make([]TaskRow, 0, len(d.Rows))
	for _, r := range d.Rows {
		if r.Blank() {
			continue
		}
		tr := TaskRow{
			Index:      r.Index,
			Project:    r.Get("nome do projeto", "projeto"),
			Assignee:   r.Get("email responsável", "responsável", "email"),
			Name:       r.Get("nome da tarefa", "tarefa", "nome"),
			HowTo:      r.Get("como fazer?", "descrição"),
			Category:   r.Get("categoria", "classificação"),
			Phase:      r.Get("fase"),
			Priority:   r.Get("prioridade"),
			Condition:  r.Get("condição", "condicao"),
			Percent:    r.Get("porcentagem"),
			Done:       r.Get("concluído", "concluida"),
			StartDate:  r.Get("data de início"),
			EndDate:    r.Get("data de fim"),
			Deadline:   r.Get("prazo"),
			ExportDays: r.Get("exportação (dias)"),
		}
		if c, ok := r.Cell("documento de referência", "documento referência", "documento"); ok {
			tr.RefDoc = c.Value
			tr.RefDocLink = c.Hyperlink
		}
		out = append(out, tr)
	}
	return out
}

// ProjectRows extracts project rows from a routed dataset.
func ProjectRows(d *Dataset) []ProjectRow {
	out := make([]ProjectRow, 0, len(d.Rows))
	for _, r := range d.Rows {
		if r.Blank() {
			continue
		}
		out = append(out, ProjectRow{
			Index:    r.Index,
			Name:     r.Get("nome do projeto", "projeto"),
			Deadline: r.Get("prazo", "data de fim"),
		})
	}
	return out
}

// PersonRows extracts person rows from a routed dataset.
func PersonRows(d *Dataset) []PersonRow {
	out := make([]PersonRow, 0, len(d.Rows))
	for _, r := range d.Rows {
		if r.Blank() {
			continue
		}
		out = append(out, PersonRow{
			Index:     r.Index,
			FirstName: r.Get("nome"),
			LastName:  r.Get("sobrenome"),
			Email:     r.Get("email", "e-mail"),
		})
	}
	return out
}
