// Entry point for the gestor HTTP service: chi router over ingestion,
// commands and the assistant, with optional MCP over stdio.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gestor/api"
	"gestor/assistant"
	"gestor/command"
	"gestor/docpipe"
	"gestor/ingest"
	"gestor/records"
)

func main() {
	cfg, err := loadConfig(os.Getenv("CONFIG"))
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := records.Open(cfg.DBPath)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ingestor := ingest.New(store, ingest.Config{
		Docs:            docpipe.Config{MaxTextLen: cfg.Ingest.MaxTextLen, Logger: logger},
		DisablePDFHowTo: cfg.Ingest.DisablePDFHowTo,
		Logger:          logger,
	})
	commands := command.New(store, ingestor, command.Config{Logger: logger})

	var assist *assistant.Assistant
	if cfg.CompleterURL != "" {
		assist = assistant.New(store, &httpCompleter{url: cfg.CompleterURL}, assistant.Config{Logger: logger})
	}

	server := api.New(store, ingestor, commands, assist, logger)

	if cfg.MCPTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "gestor",
			Version: "1.0.0",
		}, nil)
		server.RegisterMCP(mcpSrv)
		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// httpCompleter calls an external completion endpoint: {prompt} in,
// {text} out.
type httpCompleter struct {
	url string
}

func (c *httpCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completer: http %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}
