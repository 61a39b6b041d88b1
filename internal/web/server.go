// Package web serves the extracted metadata over a JSON API so other tools
// can inspect a .pbix project without the CLI.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pbnj/internal/docs"
	"pbnj/internal/insights"
	"pbnj/internal/model"
	"pbnj/internal/parser"
)

// Server holds the currently loaded project. State lives on the server
// value, guarded by mu, so two servers in one process never share a project.
type Server struct {
	mu        sync.RWMutex
	doc       *model.Document
	uploadDir string

	port int
}

func NewServer(port int) *Server {
	return &Server{port: port}
}

// LoadDocument preloads a document, e.g. from an existing project snapshot.
func (s *Server) LoadDocument(doc *model.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger, middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/project/info", s.handleProjectInfo)
		r.Get("/project/metadata", s.handleMetadata)
		r.Get("/tables", s.facetHandler("tables"))
		r.Get("/measures", s.facetHandler("measures"))
		r.Get("/relationships", s.facetHandler("relationships"))
		r.Get("/power-query", s.facetHandler("power_query"))
		r.Get("/insights", s.handleInsights)
		r.Get("/export/{format}", s.handleExport)
		r.Get("/documentation/{name}", s.handleDocumentation)
	})
	return r
}

// Serve starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🌐 serving on http://localhost:%d", s.port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) document() *model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "pbnj",
		"loaded":  s.document() != nil,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts a multipart .pbix file, extracts its metadata, and
// makes it the server's current project.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pbix") {
		writeError(w, http.StatusBadRequest, "only .pbix files are supported")
		return
	}

	dir := s.uploadDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "pbnj-upload-")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	dst := filepath.Join(dir, filepath.Base(header.Filename))
	out, err := os.Create(dst)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out.Close()

	doc, err := parser.New(dst).ExtractMetadata()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.LoadDocument(doc)
	log.Printf("✓ loaded %s (%d tables)", header.Filename, doc.Tables.Count())
	writeJSON(w, http.StatusOK, map[string]any{
		"file":   header.Filename,
		"tables": doc.Tables.Count(),
	})
}

func (s *Server) handleProjectInfo(w http.ResponseWriter, r *http.Request) {
	doc := s.document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "no project loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_info": doc.FileInfo,
		"summary":   doc.Summarize(),
	})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	doc := s.document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "no project loaded")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// facetHandler serves one facet of the document. Failed facets still return
// 200 with the error placeholder, matching the snapshot shape.
func (s *Server) facetHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := s.document()
		if doc == nil {
			writeError(w, http.StatusNotFound, "no project loaded")
			return
		}

		var v any
		switch name {
		case "tables":
			v = doc.Tables
		case "measures":
			v = doc.Measures
		case "relationships":
			v = doc.Relationships
		case "power_query":
			v = doc.PowerQuery
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	doc := s.document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "no project loaded")
		return
	}
	writeJSON(w, http.StatusOK, insights.Analyze(doc))
}

// handleExport streams the document in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc := s.document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "no project loaded")
		return
	}

	format := chi.URLParam(r, "format")
	f, err := docs.GetFormat(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmp, err := os.MkdirTemp("", "pbnj-export-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(tmp)

	path := filepath.Join(tmp, "export."+f.Extension())
	g := docs.NewGenerator(doc, tmp)
	if err := f.Export(g, path); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if f.Extension() == "json" {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	w.Write(data)
}

// handleDocumentation renders a single markdown document by name
// (readme, tables, measures, power_query, relationships, summary,
// technical, business).
func (s *Server) handleDocumentation(w http.ResponseWriter, r *http.Request) {
	doc := s.document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "no project loaded")
		return
	}

	name := chi.URLParam(r, "name")
	content, err := docs.NewGenerator(doc, "").Render(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown document: %s", name))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, content)
}
