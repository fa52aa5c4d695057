package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  allowedOrigins:
    - http://localhost:3000
database:
  uri: mongodb://localhost:27017/planhub
llm:
  provider: openai
  model: gpt-4o-mini
  apiKey: test-key
  temperature: 0.7
  timeoutSeconds: 30
review:
  historyLimit: 5
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("unexpected llm config %+v", cfg.LLM)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", cfg.LLM.Temperature)
	}
	if cfg.Review.HistoryLimit != 5 {
		t.Errorf("historyLimit = %d, want 5", cfg.Review.HistoryLimit)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("default provider = %s, want gemini", cfg.LLM.Provider)
	}
	if cfg.LLM.TimeoutSeconds != 45 {
		t.Errorf("default timeout = %d, want 45", cfg.LLM.TimeoutSeconds)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0.4 {
		t.Errorf("default temperature = %v, want 0.4", cfg.LLM.Temperature)
	}
	if cfg.Review.HistoryLimit != 10 {
		t.Errorf("default historyLimit = %d, want 10", cfg.Review.HistoryLimit)
	}
}

func TestLoadConfigExplicitZeroTemperature(t *testing.T) {
	path := writeConfig(t, "llm:\n  temperature: 0\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0 {
		t.Errorf("temperature = %v, an explicit 0 must not be replaced by the default", cfg.LLM.Temperature)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for invalid yaml")
	}
}
