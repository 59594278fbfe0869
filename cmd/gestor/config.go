package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration. Environment variables
// override file values; both fall back to defaults.
type fileConfig struct {
	Port         string `yaml:"port"`
	DBPath       string `yaml:"db_path"`
	LogLevel     string `yaml:"log_level"`
	CompleterURL string `yaml:"completer_url"`
	MCPTransport string `yaml:"mcp_transport"`

	Ingest struct {
		DisablePDFHowTo bool `yaml:"disable_pdf_how_to"`
		MaxTextLen      int  `yaml:"max_text_len"`
	} `yaml:"ingest"`
}

func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{
		Port:     "8080",
		DBPath:   "db/gestor.db",
		LogLevel: "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	overrideEnv(&cfg.Port, "PORT")
	overrideEnv(&cfg.DBPath, "DB_PATH")
	overrideEnv(&cfg.LogLevel, "LOG_LEVEL")
	overrideEnv(&cfg.CompleterURL, "COMPLETER_URL")
	overrideEnv(&cfg.MCPTransport, "MCP_TRANSPORT")
	return cfg, nil
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
