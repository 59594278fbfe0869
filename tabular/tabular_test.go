package tabular

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	data := []byte("Nome do Projeto,Prazo\nAlpha,10/05/2025\n,\nBeta,2025-06-01\n")

	d, err := ReadCSV(data)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(d.Columns) != 2 || d.Columns[0] != "nome do projeto" {
		t.Fatalf("columns = %v", d.Columns)
	}
	if len(d.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(d.Rows))
	}
	if got := d.Rows[0].Get("projeto", "nome do projeto"); got != "Alpha" {
		t.Errorf("row 1 project = %q", got)
	}
	if !d.Rows[1].Blank() {
		t.Error("row 2 should be blank")
	}
	if d.Rows[2].Index != 3 {
		t.Errorf("row 3 index = %d", d.Rows[2].Index)
	}
}

func TestReadCSV_Semicolon(t *testing.T) {
	// WHAT: delimiter sniffing on a semicolon-separated export.
	data := []byte("Nome;Sobrenome;Email\nAna;Silva;ana@acme.com\n")

	d, err := ReadCSV(data)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := d.Rows[0].Get("email"); got != "ana@acme.com" {
		t.Errorf("email = %q", got)
	}
}

func TestReadCSV_BOM(t *testing.T) {
	data := []byte("\xef\xbb\xbfNome,Sobrenome,Email\nAna,Silva,ana@acme.com\n")

	d, err := ReadCSV(data)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if d.Columns[0] != "nome" {
		t.Errorf("first column = %q, BOM not stripped", d.Columns[0])
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Nome da Tarefa")
	f.SetCellValue(sheet, "B1", "Documento de Referência")
	f.SetCellValue(sheet, "A2", "Revisar contrato")
	f.SetCellValue(sheet, "B2", "manual.pdf")
	if err := f.SetCellHyperLink(sheet, "B2", "https://acme.com/manual.pdf", "External"); err != nil {
		t.Fatalf("SetCellHyperLink: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	d, err := ReadXLSX(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(d.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(d.Rows))
	}
	c, ok := d.Rows[0].Cell("documento de referência")
	if !ok {
		t.Fatal("reference cell missing")
	}
	if c.Value != "manual.pdf" {
		t.Errorf("value = %q", c.Value)
	}
	if c.Hyperlink != "https://acme.com/manual.pdf" {
		t.Errorf("hyperlink = %q", c.Hyperlink)
	}
}

func TestReadHTMLTable(t *testing.T) {
	page := []byte(`<html><body><p>intro</p><table>
<tr><th>Nome do Projeto</th><th>Prazo</th></tr>
<tr><td>Alpha</td><td>10/05/2025</td></tr>
</table></body></html>`)

	d, err := ReadHTMLTable(page)
	if err != nil {
		t.Fatalf("ReadHTMLTable: %v", err)
	}
	if len(d.Columns) != 2 || d.Columns[1] != "prazo" {
		t.Fatalf("columns = %v", d.Columns)
	}
	if got := d.Rows[0].Get("nome do projeto"); got != "Alpha" {
		t.Errorf("project = %q", got)
	}
}

func TestReadHTMLTable_NoTable(t *testing.T) {
	_, err := ReadHTMLTable([]byte("<html><body><p>sem tabela</p></body></html>"))
	if err != ErrNoTable {
		t.Fatalf("err = %v, want ErrNoTable", err)
	}
}

func TestRewriteSheetsURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "edit with gid fragment",
			in:   "https://docs.google.com/spreadsheets/d/abc123/edit#gid=42",
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42",
		},
		{
			name: "edit with gid query",
			in:   "https://docs.google.com/spreadsheets/d/abc123/edit?gid=7",
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=7",
		},
		{
			name: "bare document url",
			in:   "https://docs.google.com/spreadsheets/d/abc123",
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv",
		},
		{
			name: "already export",
			in:   "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=3",
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteSheetsURL(tt.in); got != tt.want {
				t.Errorf("RewriteSheetsURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name    string
		columns string
		want    Kind
	}{
		{"task sheet", "Nome da Tarefa,Nome do Projeto,Email Responsável,Data de Fim", KindTask},
		{"task legacy deadline", "Tarefa,Projeto,Responsável,Prazo", KindTask},
		{"project sheet", "Nome do Projeto,Prazo", KindProject},
		{"person sheet", "Nome,Sobrenome,Email", KindPerson},
		{"unknown", "Foo,Bar", KindUnknown},
		// A sheet carrying every task column also satisfies the project
		// signature; task wins by priority.
		{"task beats project", "Tarefa,Nome do Projeto,Email,Prazo,Nome,Sobrenome", KindTask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ReadCSV([]byte(tt.columns + "\n"))
			if err != nil {
				t.Fatalf("ReadCSV: %v", err)
			}
			if got := Route(d); got != tt.want {
				t.Errorf("Route = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskRows(t *testing.T) {
	data := []byte("Nome da Tarefa,Projeto,Email,Prazo,Porcentagem\n" +
		"Revisar contrato,Alpha,ana@acme.com,10/05/2025,50\n" +
		",,,,\n" +
		"Enviar proposta,Alpha,ana@acme.com,12/05/2025,\n")

	d, err := ReadCSV(data)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	rows := TaskRows(d)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank dropped)", len(rows))
	}
	if rows[0].Name != "Revisar contrato" || rows[0].Deadline != "10/05/2025" {
		t.Errorf("row 1 = %+v", rows[0])
	}
	if rows[1].Index != 3 {
		t.Errorf("row 2 index = %d, want original position 3", rows[1].Index)
	}
}

func TestPersonRows(t *testing.T) {
	d, err := ReadCSV([]byte("Nome,Sobrenome,E-mail\nAna,Silva,ana@acme.com\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	rows := PersonRows(d)
	if len(rows) != 1 || rows[0].Email != "ana@acme.com" {
		t.Fatalf("rows = %+v", rows)
	}
}
