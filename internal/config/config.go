// Package config provides configuration loading and structs for the Oshiete server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/oshiete/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Milvus    MilvusConfig    `yaml:"milvus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Trace     TraceConfig     `yaml:"trace"`
	Upload    UploadConfig    `yaml:"upload"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// MilvusConfig holds vector index connection settings. Framework namespaces
// map to partitions of a single collection.
type MilvusConfig struct {
	Address     string `yaml:"address"`
	Collection  string `yaml:"collection"`
	VectorField string `yaml:"vector_field"`
}

// EmbeddingConfig holds settings for the embedding provider. The API key is
// taken from the EMBEDDING_API_KEY environment variable, never from the file.
type EmbeddingConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	Dimensions     int    `yaml:"dimensions"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIKey         string `yaml:"-"`
}

// LLMConfig holds settings for the generation provider. Two model identifiers
// share one endpoint: one for documentation answers, one for code generation.
// The API key comes from the LLM_API_KEY environment variable.
type LLMConfig struct {
	BaseURL         string  `yaml:"base_url"`
	AnswerModel     string  `yaml:"answer_model"`
	CodeModel       string  `yaml:"code_model"`
	Temperature     float64 `yaml:"temperature"`
	AnswerMaxTokens int     `yaml:"answer_max_tokens"`
	CodeMaxTokens   int     `yaml:"code_max_tokens"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	APIKey          string  `yaml:"-"`
}

// RetrievalConfig holds retrieval fan-out settings. Frameworks is the set of
// valid namespaces, used as the default when a request names none.
type RetrievalConfig struct {
	TopK       int      `yaml:"top_k"`
	CodeTopK   int      `yaml:"code_top_k"`
	Frameworks []string `yaml:"frameworks"`
}

// TraceConfig holds settings for the trace recorder.
type TraceConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// UploadConfig holds limits for uploaded files.
type UploadConfig struct {
	MaxFileBytes int `yaml:"max_file_bytes"`
	MaxFileChars int `yaml:"max_file_chars"`
}

// Load reads and parses the config file at path, applies defaults, and pulls
// secrets from the environment. Returns an error if the file cannot be read
// or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv overlays environment variables over the loaded config. Secrets only
// live in the environment; MILVUS_ADDRESS allows overriding the index endpoint
// per deployment.
func applyEnv(cfg *Config) {
	cfg.Embedding.APIKey = os.Getenv("EMBEDDING_API_KEY")
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	if addr := os.Getenv("MILVUS_ADDRESS"); addr != "" {
		cfg.Milvus.Address = addr
	}
}

// Validate checks that required settings are present. Dimension compatibility
// with the index is not validated proactively; a mismatch surfaces on first use.
func (c *Config) Validate() error {
	if c.Milvus.Address == "" {
		return &models.ConfigurationError{Field: "milvus.address", Reason: "required"}
	}
	if c.Embedding.APIKey == "" {
		return &models.ConfigurationError{Field: "EMBEDDING_API_KEY", Reason: "environment variable not set"}
	}
	if c.LLM.APIKey == "" {
		return &models.ConfigurationError{Field: "LLM_API_KEY", Reason: "environment variable not set"}
	}
	if c.Embedding.Dimensions <= 0 {
		return &models.ConfigurationError{Field: "embedding.dimensions", Reason: "must be positive"}
	}
	if len(c.Retrieval.Frameworks) == 0 {
		return &models.ConfigurationError{Field: "retrieval.frameworks", Reason: "at least one framework namespace is required"}
	}
	return nil
}
