package config

// DefaultFrameworks is the framework namespace list used when the config names
// none. It must match the partitions of the ingested index.
var DefaultFrameworks = []string{
	"react",
	"nextjs",
	"tailwind",
	"fastapi",
	"django",
	"postgresql",
	"typescript",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Milvus.Collection == "" {
		cfg.Milvus.Collection = "devdocs"
	}
	if cfg.Milvus.VectorField == "" {
		cfg.Milvus.VectorField = "vector"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = 30
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.AnswerModel == "" {
		cfg.LLM.AnswerModel = "gpt-4o"
	}
	if cfg.LLM.CodeModel == "" {
		cfg.LLM.CodeModel = "gpt-4o"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.LLM.AnswerMaxTokens == 0 {
		cfg.LLM.AnswerMaxTokens = 2000
	}
	if cfg.LLM.CodeMaxTokens == 0 {
		cfg.LLM.CodeMaxTokens = 16000
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 120
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.CodeTopK == 0 {
		cfg.Retrieval.CodeTopK = 3
	}
	if cfg.Retrieval.Frameworks == nil {
		cfg.Retrieval.Frameworks = append([]string(nil), DefaultFrameworks...)
	}
	if cfg.Trace.DatabasePath == "" {
		cfg.Trace.DatabasePath = "/usr/local/var/oshiete/data/traces.db"
	}
	if cfg.Upload.MaxFileBytes == 0 {
		cfg.Upload.MaxFileBytes = 10 * 1024 * 1024
	}
	if cfg.Upload.MaxFileChars == 0 {
		cfg.Upload.MaxFileChars = 50000
	}
}
