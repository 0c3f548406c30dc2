package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hyperjump/oshiete/internal/extract"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/prompt"
	"github.com/hyperjump/oshiete/internal/trace"
	"github.com/hyperjump/oshiete/pkg/utils"
)

// sourceTextLimit caps the chunk text echoed back in source nodes.
const sourceTextLimit = 300

// maxUploadMemory bounds in-memory multipart parsing.
const maxUploadMemory = 32 << 20

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serveChat(w, r, &req, "")
}

func (s *Server) handleChatUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	req := models.ChatRequest{Message: r.FormValue("message")}
	if !s.decodeFormJSON(w, r.FormValue("frameworks"), "frameworks", &req.Frameworks) {
		return
	}
	if !s.decodeFormJSON(w, r.FormValue("history"), "history", &req.History) {
		return
	}
	fileContext := s.extractor.ProcessUploads(s.collectFiles(r))
	if err := req.ValidateUpload(fileContext != ""); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serveChat(w, r, &req, fileContext)
}

func (s *Server) serveChat(w http.ResponseWriter, r *http.Request, req *models.ChatRequest, fileContext string) {
	frameworks := s.frameworksOrDefault(req.Frameworks)
	traceID := trace.NewTraceID()
	s.logger.Debug("chat request",
		zap.String("trace_id", traceID),
		zap.Strings("frameworks", frameworks),
		zap.Int("history_length", len(req.History)),
		zap.Bool("has_files", fileContext != ""))

	// Uploaded file content leads the question, and stands in for it entirely
	// when the message is empty.
	message := req.Message
	if fileContext != "" {
		message = prompt.WrapFileContext(fileContext)
		if req.Message != "" {
			message += "\n\nUser question: " + req.Message
		}
	}

	input := map[string]interface{}{"message": req.Message, "frameworks": frameworks}
	answer, chunks, err := s.pipeline.Answer(r.Context(), message, frameworks, req.History)
	if err != nil {
		s.recordTrace(r, traceID, "chat", input, map[string]interface{}{"error": err.Error()}, nil)
		s.logger.Error("chat failed", zap.String("trace_id", traceID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sources := make([]models.SourceNode, len(chunks))
	for i, c := range chunks {
		sources[i] = models.SourceNode{
			ID:        c.ID,
			Text:      utils.Truncate(c.Text, sourceTextLimit),
			Score:     c.Score,
			Metadata:  c.Metadata,
			URL:       c.URL,
			Framework: c.Framework,
		}
	}

	s.recordTrace(r, traceID, "chat", input,
		map[string]interface{}{"response": answer},
		map[string]interface{}{"num_sources": len(sources), "has_files": fileContext != ""})

	s.respondJSON(w, http.StatusOK, models.ChatResponse{
		Response: answer,
		Sources:  sources,
		TraceID:  traceID,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.CodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serveGenerate(w, r, &req, "")
}

func (s *Server) handleGenerateUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	req := models.CodeRequest{Prompt: r.FormValue("prompt")}
	if !s.decodeFormJSON(w, r.FormValue("frameworks"), "frameworks", &req.Frameworks) {
		return
	}
	if !s.decodeFormJSON(w, r.FormValue("history"), "history", &req.History) {
		return
	}
	if raw := r.FormValue("include_docs_context"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, http.StatusUnprocessableEntity, "include_docs_context is not a boolean")
			return
		}
		req.IncludeDocsContext = &include
	}
	fileContext := s.extractor.ProcessUploads(s.collectFiles(r))
	if err := req.ValidateUpload(fileContext != ""); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serveGenerate(w, r, &req, fileContext)
}

func (s *Server) serveGenerate(w http.ResponseWriter, r *http.Request, req *models.CodeRequest, fileContext string) {
	frameworks := s.frameworksOrDefault(req.Frameworks)
	traceID := trace.NewTraceID()
	s.logger.Debug("generate request",
		zap.String("trace_id", traceID),
		zap.Strings("frameworks", frameworks),
		zap.Bool("include_context", req.IncludeContext()),
		zap.Bool("has_files", fileContext != ""))

	promptText := req.Prompt
	if fileContext != "" {
		promptText = prompt.WrapFileContext(fileContext)
		if req.Prompt != "" {
			promptText += "\n\nUser request: " + req.Prompt
		}
	}

	input := map[string]interface{}{"prompt": req.Prompt, "frameworks": frameworks}
	code, err := s.pipeline.GenerateCode(r.Context(), promptText, frameworks, req.History, req.IncludeContext())
	if err != nil {
		s.recordTrace(r, traceID, "generate", input, map[string]interface{}{"error": err.Error()}, nil)
		s.logger.Error("generate failed", zap.String("trace_id", traceID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordTrace(r, traceID, "generate", input,
		map[string]interface{}{"code": code},
		map[string]interface{}{"include_context": req.IncludeContext(), "has_files": fileContext != ""})

	s.respondJSON(w, http.StatusOK, models.CodeResponse{
		Code:    code,
		TraceID: traceID,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	value := 0.0
	if req.Value == models.FeedbackPositive {
		value = 1.0
	}
	err := s.recorder.Score(r.Context(), &trace.Score{
		TraceID: req.TraceID,
		Name:    "user-feedback",
		Value:   value,
		Comment: req.Comment,
	})
	if err != nil {
		s.logger.Error("feedback recording failed", zap.String("trace_id", req.TraceID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.index.Stats(r.Context())
	if err != nil {
		s.logger.Warn("health: index stats failed", zap.Error(err))
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"index": map[string]interface{}{
			"total_vectors": stats.TotalVectors,
			"dimension":     stats.Dimension,
			"namespaces":    stats.Namespaces,
		},
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service":    "oshiete",
		"status":     "running",
		"frameworks": s.config.Retrieval.Frameworks,
	})
}

// decodeFormJSON parses a JSON-encoded form field into dst. Empty fields are
// allowed. On bad JSON it writes a 422 and returns false.
func (s *Server) decodeFormJSON(w http.ResponseWriter, raw, field string, dst interface{}) bool {
	if raw == "" {
		return true
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, field+" is not valid JSON")
		return false
	}
	return true
}

// collectFiles reads every "files" part of a parsed multipart form. Unreadable
// parts are logged and skipped; the extractor handles all other bad inputs.
func (s *Server) collectFiles(r *http.Request) []extract.UploadedFile {
	if r.MultipartForm == nil {
		return nil
	}
	var files []extract.UploadedFile
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			s.logger.Warn("upload: open failed", zap.String("file", header.Filename), zap.Error(err))
			continue
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			s.logger.Warn("upload: read failed", zap.String("file", header.Filename), zap.Error(err))
			continue
		}
		files = append(files, extract.UploadedFile{Name: header.Filename, Data: data})
	}
	return files
}

// frameworksOrDefault substitutes the configured framework list when the
// request names none.
func (s *Server) frameworksOrDefault(frameworks []string) []string {
	if len(frameworks) == 0 {
		return s.config.Retrieval.Frameworks
	}
	return frameworks
}

// recordTrace persists a trace without ever failing the request.
func (s *Server) recordTrace(r *http.Request, traceID, name string, input, output, metadata map[string]interface{}) {
	err := s.recorder.Record(r.Context(), &trace.Trace{
		ID:       traceID,
		Name:     name,
		Input:    input,
		Output:   output,
		Metadata: metadata,
	})
	if err != nil {
		s.logger.Warn("trace recording failed", zap.String("trace_id", traceID), zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
