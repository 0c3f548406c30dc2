// Package main is the Oshiete CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/cli"
	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/embedding"
	"github.com/hyperjump/oshiete/internal/extract"
	"github.com/hyperjump/oshiete/internal/generate"
	"github.com/hyperjump/oshiete/internal/llm"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/pipeline"
	"github.com/hyperjump/oshiete/internal/retrieval"
	"github.com/hyperjump/oshiete/internal/server"
	"github.com/hyperjump/oshiete/internal/trace"
	"github.com/hyperjump/oshiete/internal/vector"
	"github.com/hyperjump/oshiete/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/oshiete/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Secrets come from the environment; a .env file next to the
// process is loaded first when present.
func loadConfig(path string) (*config.Config, string, error) {
	_ = godotenv.Load()
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "generate":
		runGenerate()
	case "health":
		runHealth()
	case "version", "--version", "-v":
		fmt.Printf("oshiete version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (retrieval details, trace ids, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Pipeline,
		components.Index,
		components.Extractor,
		components.Recorder,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAsk() {
	askArgs := os.Args[2:]
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	frameworks := fs.String("frameworks", "", "comma-separated framework list (default: server's configured list)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: oshiete ask [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: oshiete ask [flags] <question>")
		os.Exit(1)
	}

	format, ok := parseOutputFormat(*outputFormat)
	if !ok {
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	request := &models.ChatRequest{
		Message:    question,
		Frameworks: splitFrameworks(*frameworks),
	}
	response, err := chatViaHTTP(*serverURL, request)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteChatResponse(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runGenerate() {
	genArgs := os.Args[2:]
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	frameworks := fs.String("frameworks", "", "comma-separated framework list (default: server's configured list)")
	noContext := fs.Bool("no-context", false, "skip documentation retrieval")
	outputFormat := fs.String("output", "text", "output format: text (raw code) or json")
	_ = fs.Parse(genArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: oshiete generate [flags] <prompt>")
		os.Exit(1)
	}
	promptText := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if promptText == "" {
		fmt.Println("Usage: oshiete generate [flags] <prompt>")
		os.Exit(1)
	}

	format, ok := parseOutputFormat(*outputFormat)
	if !ok {
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	request := &models.CodeRequest{
		Prompt:     promptText,
		Frameworks: splitFrameworks(*frameworks),
	}
	if *noContext {
		off := false
		request.IncludeDocsContext = &off
	}
	response, err := generateViaHTTP(*serverURL, request)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generate failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCodeResponse(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runHealth() {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Println(strings.TrimSpace(string(body)))
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func parseOutputFormat(s string) (cli.OutputFormat, bool) {
	switch s {
	case "json":
		return cli.OutputJSON, true
	case "text":
		return cli.OutputText, true
	default:
		return cli.OutputText, false
	}
}

// splitFrameworks parses a comma-separated framework list, dropping empties.
func splitFrameworks(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func chatViaHTTP(serverURL string, request *models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func generateViaHTTP(serverURL string, request *models.CodeRequest) (*models.CodeResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.CodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// Components holds initialized services.
type Components struct {
	Index     vector.Index
	Milvus    *vector.MilvusIndex
	Pipeline  *pipeline.Pipeline
	Extractor *extract.Extractor
	Recorder  trace.Recorder
}

func (c *Components) Close() {
	if c.Milvus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Milvus.Close(ctx)
	}
	if c.Recorder != nil {
		_ = c.Recorder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	milvusIndex, err := vector.NewMilvusIndex(ctx, &cfg.Milvus)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	embedder := embedding.NewClient(&cfg.Embedding)
	llmClient := llm.NewHTTPClient(&cfg.LLM)

	retriever := retrieval.NewRetriever(embedder, milvusIndex, logger)
	p := pipeline.New(
		retriever,
		generate.NewAnswerGenerator(llmClient, &cfg.LLM),
		generate.NewCodeGenerator(llmClient, &cfg.LLM),
		cfg.Retrieval.TopK,
		cfg.Retrieval.CodeTopK,
		logger,
	)

	var recorder trace.Recorder
	if cfg.Trace.DatabasePath != "" {
		sqliteRecorder, err := trace.NewSQLiteRecorder(cfg.Trace.DatabasePath)
		if err != nil {
			_ = milvusIndex.Close(ctx)
			return nil, fmt.Errorf("failed to initialize trace recorder: %w", err)
		}
		recorder = sqliteRecorder
	} else {
		logger.Warn("trace recording disabled: no database path configured")
		recorder = trace.NopRecorder{}
	}

	return &Components{
		Index:     milvusIndex,
		Milvus:    milvusIndex,
		Pipeline:  p,
		Extractor: extract.NewExtractor(int64(cfg.Upload.MaxFileBytes), cfg.Upload.MaxFileChars),
		Recorder:  recorder,
	}, nil
}

func printUsage() {
	fmt.Println(`oshiete - Documentation Q&A and code generation server

Usage:
  oshiete server [flags]             Start the HTTP server
  oshiete ask [flags] <question>     Ask a documentation question
  oshiete generate [flags] <prompt>  Generate code from a prompt
  oshiete health [flags]             Check server health
  oshiete version                    Show version
  oshiete help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/oshiete/config.yaml)
  --debug            Enable debug logging (retrieval details, trace ids, etc.)

Ask Flags:
  --server string      Server URL (default: http://localhost:8000)
  --frameworks string  Comma-separated framework list (default: server's configured list)
  --output string      Output format: text or json (default: text)

Generate Flags:
  --server string      Server URL (default: http://localhost:8000)
  --frameworks string  Comma-separated framework list (default: server's configured list)
  --no-context         Skip documentation retrieval
  --output string      Output format: text (raw code) or json (default: text)

Environment:
  EMBEDDING_API_KEY   API key for the embedding provider (required)
  LLM_API_KEY         API key for the generation provider (required)
  MILVUS_ADDRESS      Milvus endpoint override

Examples:
  oshiete server
  oshiete ask "how do React hooks work?"
  oshiete ask --frameworks react,nextjs "what is server-side rendering?"
  oshiete generate "a todo app with authentication" > todo-app.md
  oshiete generate --no-context "a fibonacci function in TypeScript"
  oshiete health`)
}
