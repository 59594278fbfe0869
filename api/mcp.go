package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP exposes the pipeline as MCP tools: ingest_url runs one source
// through ingestion, command_execute runs an imperative sentence.
//
// Uses the SDK's low-level ToolHandler: arguments arrive as
// json.RawMessage, tool failures go through result.SetError (a non-nil
// handler error would be a protocol error instead).
func (s *Server) RegisterMCP(srv *mcp.Server) {
	ingestTool := &mcp.Tool{
		Name:        "ingest_url",
		Description: "Ingere uma fonte remota (planilha, documento ou página) e cria os registros encontrados.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"url": {"type": "string", "description": "URL da fonte a ingerir"}
			},
			"required": ["url"]
		}`),
	}
	srv.AddTool(ingestTool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			URL string `json:"url"`
		}
		if err := unmarshalArgs(req, &args); err != nil || args.URL == "" {
			return toolError(fmt.Errorf("ingest_url: argumento 'url' inválido")), nil
		}

		result, err := s.ingestor.IngestURL(ctx, args.URL)
		if err != nil {
			return toolError(fmt.Errorf("ingest_url: %w", err)), nil
		}
		return toolJSON(result)
	})

	commandTool := &mcp.Tool{
		Name:        "command_execute",
		Description: "Executa uma frase imperativa (mudar prazo, porcentagem, responsável, prioridade, status).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"texto": {"type": "string", "description": "Frase do comando"}
			},
			"required": ["texto"]
		}`),
	}
	srv.AddTool(commandTool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Text string `json:"texto"`
		}
		if err := unmarshalArgs(req, &args); err != nil || args.Text == "" {
			return toolError(fmt.Errorf("command_execute: argumento 'texto' inválido")), nil
		}

		result, err := s.commands.Execute(ctx, args.Text)
		if err != nil {
			return toolError(fmt.Errorf("command_execute: %w", err)), nil
		}
		return toolJSON(result)
	})
}

func unmarshalArgs(req *mcp.CallToolRequest, v any) error {
	if req.Params.Arguments == nil {
		return fmt.Errorf("missing arguments")
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(err), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
