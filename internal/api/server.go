package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"genstack/internal/config"
	"genstack/internal/ingest"
	"genstack/internal/retriever"
	"genstack/internal/vectorindex"
	"genstack/internal/workflow"

	"github.com/google/uuid"
)

// Server is the thin transport shell over the two core operations: running a
// workflow and ingesting a document. It decodes input, delegates, and
// serializes the answer or an error envelope.
type Server struct {
	cfg       config.Config
	engine    *workflow.Engine
	ingestor  *ingest.Ingestor
	retriever *retriever.Retriever
	index     vectorindex.Index
}

func NewServer(cfg config.Config, engine *workflow.Engine, ingestor *ingest.Ingestor, r *retriever.Retriever, index vectorindex.Index) *Server {
	return &Server{cfg: cfg, engine: engine, ingestor: ingestor, retriever: r, index: index}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/workflows/run", s.handleRunWorkflow)
	mux.HandleFunc("/documents", s.handleDocuments)
	mux.HandleFunc("/documents/upload", s.handleUpload)
	mux.HandleFunc("/search", s.handleSearch)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Graph        workflow.Definition `json:"graph"`
		Query        string              `json:"query"`
		CustomPrompt string              `json:"custom_prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	runID := uuid.NewString()
	graph, err := workflow.FromDefinition(req.Graph)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	answer, err := s.engine.Execute(r.Context(), graph, req.Query, strings.TrimSpace(req.CustomPrompt))
	if err != nil {
		var verr *workflow.ValidationError
		if errors.As(err, &verr) {
			writeErr(w, http.StatusBadRequest, verr)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	log.Printf("workflow run=%s nodes=%d answered", runID, len(graph.Nodes))
	writeJSON(w, http.StatusOK, map[string]any{"answer": answer, "run_id": runID})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	docs, err := s.index.Documents(r.Context(), s.cfg.Collection)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		files = r.MultipartForm.File["files"]
	}
	if len(files) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	type uploadResult struct {
		Filename      string `json:"filename"`
		ChunksIndexed int    `json:"chunks_indexed"`
	}
	out := make([]uploadResult, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeErr(w, http.StatusInternalServerError, fmt.Errorf("open upload: %w", err))
			return
		}
		raw, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeErr(w, http.StatusInternalServerError, fmt.Errorf("read upload: %w", err))
			return
		}
		filename := filepath.Base(fh.Filename)
		n, err := s.ingestor.IngestDocument(r.Context(), filename, raw)
		if err != nil {
			var ierr *ingest.IngestionError
			if errors.As(err, &ierr) {
				writeErr(w, http.StatusBadRequest, ierr)
				return
			}
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, uploadResult{Filename: filename, ChunksIndexed: n})
	}
	writeJSON(w, http.StatusOK, map[string]any{"uploaded": out})
}

// handleSearch runs retrieval directly, outside any workflow graph. Useful
// for checking what the knowledge base would feed a run.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Query     string   `json:"query"`
		K         int      `json:"k"`
		Threshold *float64 `json:"threshold"`
		Documents []string `json:"documents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}
	if req.K <= 0 {
		req.K = s.cfg.DefaultTopK
	}
	threshold := s.cfg.SimilarityThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	matches, err := s.retriever.Retrieve(r.Context(), req.Query, req.K, threshold, req.Documents)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	type searchResult struct {
		Text   string  `json:"text"`
		Source string  `json:"source"`
		Score  float64 `json:"score"`
	}
	out := make([]searchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, searchResult{Text: m.Text, Source: m.Source, Score: m.Score})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErr(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
