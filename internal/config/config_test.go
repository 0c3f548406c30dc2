package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/oshiete/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "milvus:\n  address: localhost:19530\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("default dimensions: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Retrieval.TopK != 5 || cfg.Retrieval.CodeTopK != 3 {
		t.Errorf("default top_k: got %d/%d", cfg.Retrieval.TopK, cfg.Retrieval.CodeTopK)
	}
	if len(cfg.Retrieval.Frameworks) == 0 {
		t.Error("default frameworks empty")
	}
	if cfg.Upload.MaxFileChars != 50000 {
		t.Errorf("default max_file_chars: got %d", cfg.Upload.MaxFileChars)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
milvus:
  address: milvus:19530
  collection: docs
retrieval:
  top_k: 8
  frameworks: [react, django]
llm:
  answer_model: gpt-4o-mini
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.Milvus.Collection != "docs" {
		t.Errorf("collection: got %q", cfg.Milvus.Collection)
	}
	if cfg.Retrieval.TopK != 8 {
		t.Errorf("top_k: got %d", cfg.Retrieval.TopK)
	}
	if len(cfg.Retrieval.Frameworks) != 2 {
		t.Errorf("frameworks: got %v", cfg.Retrieval.Frameworks)
	}
	if cfg.LLM.AnswerModel != "gpt-4o-mini" {
		t.Errorf("answer_model: got %q", cfg.LLM.AnswerModel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadEnvSecrets(t *testing.T) {
	t.Setenv("EMBEDDING_API_KEY", "emb-key")
	t.Setenv("LLM_API_KEY", "llm-key")
	t.Setenv("MILVUS_ADDRESS", "env-milvus:19530")
	path := writeConfig(t, "milvus:\n  address: file-milvus:19530\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Embedding.APIKey != "emb-key" || cfg.LLM.APIKey != "llm-key" {
		t.Error("API keys not taken from environment")
	}
	if cfg.Milvus.Address != "env-milvus:19530" {
		t.Errorf("MILVUS_ADDRESS override ignored: %q", cfg.Milvus.Address)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Milvus.Address = "localhost:19530"
	cfg.Embedding.APIKey = "k"
	cfg.LLM.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	missing := *cfg
	missing.Embedding.APIKey = ""
	err := missing.Validate()
	if err == nil {
		t.Fatal("missing embedding key accepted")
	}
	var cerr *models.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}
