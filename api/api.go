// Package api is the thin HTTP surface over ingestion, commands and the
// assistant.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gestor/assistant"
	"gestor/command"
	"gestor/ingest"
	"gestor/records"
)

// Server bundles the handlers and their collaborators.
type Server struct {
	store    records.Repository
	ingestor *ingest.Service
	commands *command.Parser
	assist   *assistant.Assistant
	logger   *slog.Logger
}

// New creates the HTTP server facade. assist may be nil when no completer
// is configured; the command endpoint then reports unrecognized input.
func New(store records.Repository, ingestor *ingest.Service, commands *command.Parser, assist *assistant.Assistant, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, ingestor: ingestor, commands: commands, assist: assist, logger: logger.With("component", "api")}
}

// Router builds the route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/ingestao/arquivo", s.handleIngestFile)
		r.Post("/ingestao/url", s.handleIngestURL)
		r.Post("/ingestao/documentos", s.handleIngestDocs)
		r.Post("/comando", s.handleCommand)
		r.Post("/chat", s.handleChat)
		r.Get("/projetos", s.handleProjects)
		r.Get("/tarefas", s.handleTasks)
		r.Get("/funcionarios", s.handlePeople)
	})
	return r
}

// maxUpload bounds multipart uploads.
const maxUpload = 25 << 20

func (s *Server) handleIngestFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "Corpo multipart inválido", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Campo 'file' ausente", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload))
	if err != nil {
		http.Error(w, "Falha ao ler o arquivo", http.StatusBadRequest)
		return
	}

	result, err := s.ingestor.IngestFile(r.Context(), header.Filename, data)
	if err != nil {
		s.ingestError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "Informe 'url'", http.StatusBadRequest)
		return
	}

	result, err := s.ingestor.IngestURL(r.Context(), req.URL)
	if err != nil {
		s.ingestError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIngestDocs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.URLs) == 0 {
		http.Error(w, "Informe 'urls'", http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, s.ingestor.IngestDocs(r.Context(), req.URLs))
}

// handleCommand runs the intent parser; when no intent matches and a user
// is given, the question falls through to the assistant.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"texto"`
		User string `json:"usuario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "Informe 'texto'", http.StatusBadRequest)
		return
	}

	result, err := s.commands.Execute(r.Context(), req.Text)
	if err == nil {
		s.writeJSON(w, http.StatusOK, result)
		return
	}
	if !errors.Is(err, command.ErrNoCommand) {
		s.logger.Error("command failed", "error", err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	if s.assist != nil && req.User != "" {
		answer, aerr := s.assist.Ask(r.Context(), req.User, req.Text)
		if aerr == nil {
			s.writeJSON(w, http.StatusOK, &command.Result{Executed: false, Message: answer})
			return
		}
		s.logger.Warn("assistant fallthrough failed", "error", aerr)
	}
	s.writeJSON(w, http.StatusOK, &command.Result{Executed: false, Message: "Nenhum comando reconhecido."})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User     string `json:"usuario"`
		Question string `json:"pergunta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.User == "" || req.Question == "" {
		http.Error(w, "Informe 'usuario' e 'pergunta'", http.StatusBadRequest)
		return
	}
	if s.assist == nil {
		http.Error(w, "Assistente não configurado", http.StatusServiceUnavailable)
		return
	}

	answer, err := s.assist.Ask(r.Context(), req.User, req.Question)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			http.Error(w, "Funcionário não encontrado", http.StatusNotFound)
			return
		}
		s.logger.Error("chat failed", "error", err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"resposta": answer})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.Projects(r.Context())
	if err != nil {
		s.logger.Error("list projects", "error", err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.Tasks(r.Context())
	if err != nil {
		s.logger.Error("list tasks", "error", err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.store.People(r.Context())
	if err != nil {
		s.logger.Error("list people", "error", err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, people)
}

// ingestError maps the ingestion taxonomy onto status codes. Fetch and
// parse problems are the caller's source, not ours.
func (s *Server) ingestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrSchemaUnknown), errors.Is(err, ingest.ErrParse):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ingest.ErrFetch):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.logger.Error("ingestion failed", "error", err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
