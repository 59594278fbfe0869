package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"gestor/records"
	"gestor/tabular"
)

func newTestService(t *testing.T) (*Service, *records.Store) {
	t.Helper()
	store, err := records.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, Config{}), store
}

func seedAlpha(t *testing.T, store *records.Store) {
	t.Helper()
	ctx := context.Background()
	if err := store.InsertProject(ctx, &records.Project{Name: "Alpha"}); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := store.InsertPerson(ctx, &records.Person{FirstName: "Ana", LastName: "Silva", Email: "ana@acme.com"}); err != nil {
		t.Fatalf("seed person: %v", err)
	}
}

func TestIngestFile_TasksCSV(t *testing.T) {
	// WHAT: N valid rows produce criados == N and erros == [].
	s, store := newTestService(t)
	seedAlpha(t, store)

	csv := "Nome da Tarefa,Nome do Projeto,Email Responsável,Data de Fim,Porcentagem\n" +
		"Revisar contrato,Alpha,ana@acme.com,10/05/2025,50\n" +
		"Enviar proposta,Alpha,ana@acme.com,12/05/2025,100\n"

	result, err := s.IngestFile(context.Background(), "tarefas.csv", []byte(csv))
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	out, ok := result.(*Outcome)
	if !ok {
		t.Fatalf("result type %T", result)
	}
	if out.Created != 2 {
		t.Errorf("criados = %d, want 2", out.Created)
	}
	if len(out.Errors) != 0 {
		t.Errorf("erros = %v, want none", out.Errors)
	}
	if out.Errors == nil {
		t.Error("erros must be non-nil so it serializes as []")
	}

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("persisted tasks = %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Name == "Enviar proposta" {
			if task.Status != records.StatusDone || task.CompletedAt == nil {
				t.Errorf("100%% task: status %q, completed %v", task.Status, task.CompletedAt)
			}
		}
	}
}

func TestIngestFile_RowErrors(t *testing.T) {
	// WHAT: a bad row's error names its 1-based source position, blank rows
	// count in neither criados nor erros, later rows still land.
	s, store := newTestService(t)
	seedAlpha(t, store)

	csv := "Nome da Tarefa,Nome do Projeto,Email Responsável,Data de Fim\n" +
		"Sem projeto,,ana@acme.com,10/05/2025\n" +
		",,,\n" +
		"Projeto errado,Omega,ana@acme.com,10/05/2025\n" +
		"Boa,Alpha,ana@acme.com,10/05/2025\n"

	result, err := s.IngestFile(context.Background(), "tarefas.csv", []byte(csv))
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	out := result.(*Outcome)
	if out.Created != 1 {
		t.Errorf("criados = %d, want 1", out.Created)
	}
	if len(out.Errors) != 2 {
		t.Fatalf("erros = %v, want 2", out.Errors)
	}
	if out.Errors[0] != "Linha 1: 'Nome do Projeto' é obrigatório." {
		t.Errorf("erro 1 = %q", out.Errors[0])
	}
	if out.Errors[1] != "Linha 3: Projeto 'Omega' não encontrado." {
		t.Errorf("erro 2 = %q", out.Errors[1])
	}
}

func TestIngestFile_DateCascade(t *testing.T) {
	// WHAT: due date falls back end date → legacy deadline → start+offset;
	// a row with none of them fails with the cascade message.
	s, store := newTestService(t)
	seedAlpha(t, store)

	csv := "Nome da Tarefa,Nome do Projeto,Email Responsável,Data de Fim,Prazo,Data de Início,Exportação (dias)\n" +
		"Com prazo legado,Alpha,ana@acme.com,,10/05/2025,,\n" +
		"Com offset,Alpha,ana@acme.com,,,01/05/2025,9\n" +
		"Sem data,Alpha,ana@acme.com,,,,\n"

	result, err := s.IngestFile(context.Background(), "tarefas.csv", []byte(csv))
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	out := result.(*Outcome)
	if out.Created != 2 {
		t.Errorf("criados = %d, want 2", out.Created)
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "Linha 3: informe 'Data de Fim'") {
		t.Errorf("erros = %v", out.Errors)
	}

	tasks, _ := store.Tasks(context.Background())
	for _, task := range tasks {
		if task.Name == "Com offset" {
			if got := task.EndDate.Format("2006-01-02"); got != "2025-05-10" {
				t.Errorf("offset end date = %s", got)
			}
		}
	}
}

func TestIngestFile_People(t *testing.T) {
	// WHAT: person rows dedup by e-mail silently on re-ingestion.
	s, store := newTestService(t)

	csv := "Nome,Sobrenome,Email\nAna,Silva,ana@acme.com\nJoão,Souza,joao@acme.com\n"

	result, err := s.IngestFile(context.Background(), "pessoas.csv", []byte(csv))
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	out := result.(*Outcome)
	if out.Created != 2 || len(out.Errors) != 0 {
		t.Fatalf("first pass: %+v", out)
	}

	result, err = s.IngestFile(context.Background(), "pessoas.csv", []byte(csv))
	if err != nil {
		t.Fatalf("IngestFile second pass: %v", err)
	}
	out = result.(*Outcome)
	if out.Created != 0 || len(out.Errors) != 0 {
		t.Errorf("second pass: %+v", out)
	}

	people, _ := store.People(context.Background())
	if len(people) != 2 {
		t.Errorf("people = %d, want 2", len(people))
	}
}

func TestIngestFile_UnknownSchema(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.IngestFile(context.Background(), "dados.csv", []byte("Foo,Bar\n1,2\n"))
	if !errors.Is(err, ErrSchemaUnknown) {
		t.Fatalf("err = %v, want ErrSchemaUnknown", err)
	}
}

// pdfFixture is a minimal document the extraction chain can read.
const pdfFixture = "%PDF-1.4\n1 0 obj\n<< /Length 44 >>\nstream\nBT\n/F1 12 Tf\n72 720 Td\n(Baixar o formulario e preencher) Tj\nET\nendstream\nendobj\ntrailer\n<<>>\n%%EOF"

func TestIngestFile_XLSXHyperlinkHowTo(t *testing.T) {
	// WHAT: a blank "Como fazer?" plus a reference-cell hyperlink ending in
	// .pdf gets the extraction chain's text; the hyperlink target is the
	// authoritative reference over the displayed value.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte(pdfFixture))
	}))
	defer srv.Close()
	pdfURL := srv.URL + "/manual.pdf"

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"Nome da Tarefa", "Nome do Projeto", "Email Responsável", "Data de Fim", "Documento de Referência"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellValue(sheet, "A2", "Preencher formulário")
	f.SetCellValue(sheet, "B2", "Alpha")
	f.SetCellValue(sheet, "C2", "ana@acme.com")
	f.SetCellValue(sheet, "D2", "10/05/2025")
	f.SetCellValue(sheet, "E2", "manual")
	if err := f.SetCellHyperLink(sheet, "E2", pdfURL, "External"); err != nil {
		t.Fatalf("SetCellHyperLink: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	s, store := newTestService(t)
	seedAlpha(t, store)

	result, err := s.IngestFile(context.Background(), "tarefas.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	out := result.(*Outcome)
	if out.Created != 1 || len(out.Errors) != 0 {
		t.Fatalf("outcome: %+v", out)
	}

	tasks, _ := store.Tasks(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	if tasks[0].RefDoc != pdfURL {
		t.Errorf("ref doc = %q, want hyperlink target", tasks[0].RefDoc)
	}
	if !strings.Contains(tasks[0].HowTo, "Baixar o formulario") {
		t.Errorf("how to = %q, want pdf text", tasks[0].HowTo)
	}
}

func TestIngestURL_CSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "Nome do Projeto,Prazo\nBeta,10/06/2025\n")
	}))
	defer srv.Close()

	s, store := newTestService(t)
	result, err := s.IngestURL(context.Background(), srv.URL+"/projetos.csv")
	if err != nil {
		t.Fatalf("IngestURL: %v", err)
	}
	out := result.(*Outcome)
	if out.Kind != tabular.KindProject || out.Created != 1 {
		t.Fatalf("outcome: %+v", out)
	}

	projects, _ := store.Projects(context.Background())
	if len(projects) != 1 || projects[0].Name != "Beta" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestIngestDocs_IsolatedFailures(t *testing.T) {
	// WHAT: one failing document never aborts its siblings.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quebrado.csv" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "Nome,Sobrenome,Email\nAna,Silva,ana@acme.com\n")
	}))
	defer srv.Close()

	s, _ := newTestService(t)
	batch := s.IngestDocs(context.Background(), []string{
		srv.URL + "/pessoas.csv",
		srv.URL + "/quebrado.csv",
	})
	if batch.Processed != 2 {
		t.Fatalf("documentos_processados = %d", batch.Processed)
	}
	if !batch.Results[0].OK || batch.Results[0].Err != "" {
		t.Errorf("first doc: %+v", batch.Results[0])
	}
	if batch.Results[1].OK || batch.Results[1].Err == "" {
		t.Errorf("second doc: %+v", batch.Results[1])
	}
}

func TestIngestFile_HTMLLinkBatch(t *testing.T) {
	// WHAT: an HTML document without a table but with anchors becomes a
	// link batch, each link ingested with an isolated result.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "Nome,Sobrenome,Email\nAna,Silva,ana@acme.com\n")
	}))
	defer srv.Close()

	page := fmt.Sprintf(`<html><body><a href="%s/pessoas.csv">planilha</a></body></html>`, srv.URL)

	s, _ := newTestService(t)
	result, err := s.IngestFile(context.Background(), "links.html", []byte(page))
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	batch, ok := result.(*LinkBatch)
	if !ok {
		t.Fatalf("result type %T", result)
	}
	if batch.Processed != 1 {
		t.Fatalf("links_processados = %d", batch.Processed)
	}
	item := batch.Items[0]
	if out, ok := item.Result.(*Outcome); !ok || out.Created != 1 {
		t.Errorf("item result = %+v", item.Result)
	}
}
