package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/michaelanticoli/quantumelodic/internal/assets"
	"github.com/michaelanticoli/quantumelodic/internal/collector"
	"github.com/michaelanticoli/quantumelodic/internal/table"
)

type pageData struct {
	Title        string
	Terms        string
	BatchSize    int
	MinBatchSize int
	MaxBatchSize int
	Messages     []collector.Message
	Columns      []string
	Rows         [][]string
}

type termsForm struct {
	Terms     string `json:"terms" validate:"required"`
	BatchSize int    `json:"batch_size" validate:"min=1,max=50"`
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, pageData{BatchSize: s.options.DefaultBatchSize})
}

func (s *Server) submitTerms(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, pageData{
			BatchSize: s.options.DefaultBatchSize,
			Messages:  []collector.Message{{Level: collector.LevelError, Text: "Invalid form: " + err.Error()}},
		})
		return
	}

	form := termsForm{
		Terms:     r.PostForm.Get("terms"),
		BatchSize: s.options.DefaultBatchSize,
	}
	if value := strings.TrimSpace(r.PostForm.Get("batch_size")); value != "" {
		batchSize, err := strconv.Atoi(value)
		if err != nil {
			batchSize = 0
		}
		form.BatchSize = batchSize
	}

	if err := s.validateStruct(form); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, pageData{
			Terms:     form.Terms,
			BatchSize: s.options.DefaultBatchSize,
			Messages:  []collector.Message{{Level: collector.LevelError, Text: "Validation error: " + err.Error()}},
		})
		return
	}

	var messages collector.Messages
	if _, err := s.collect(r, collector.ParseTerms(form.Terms), form.BatchSize, &messages); err != nil {
		s.logger.Warn("collection interrupted", "error", err)
		messages.Report(collector.LevelError, fmt.Sprintf("Collection interrupted: %v", err))
	}

	s.renderPage(w, r, http.StatusOK, pageData{
		BatchSize: form.BatchSize,
		Messages:  messages.Items(),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	entries, err := s.repo.All(r.Context())
	if err != nil {
		s.logger.Error("failed to load terms", "error", err)
		http.Error(w, "failed to load terms", http.StatusInternalServerError)
		return
	}

	data.Title = assets.DefaultTitle
	data.MinBatchSize = collector.MinBatchSize
	data.MaxBatchSize = collector.MaxBatchSize
	data.Columns = table.Columns
	data.Rows = table.Rows(entries)

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render the page", "error", err)
		http.Error(w, "failed to render the page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) downloadCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.All(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load terms")
		return
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, entries); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to write csv")
		return
	}
	w.Header().Set("Content-Type", table.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.FileName))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) downloadMarkdown(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.All(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load terms")
		return
	}

	var buf bytes.Buffer
	if err := assets.WriteKnowledgeBase(&buf, s.options.MarkdownTemplate, entries); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to render markdown")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="knowledge_base.md"`)
	_, _ = w.Write(buf.Bytes())
}
