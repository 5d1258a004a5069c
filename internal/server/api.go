package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/michaelanticoli/quantumelodic/internal/collector"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

// CollectRequest represents the request body of POST /api/terms
type CollectRequest struct {
	Terms     []string `json:"terms" validate:"required,min=1,dive,required"`
	BatchSize int      `json:"batch_size,omitempty" validate:"omitempty,min=1,max=50"`
}

type FailureResponse struct {
	Term  string `json:"term"`
	Error string `json:"error"`
}

type CollectResponse struct {
	Added    []string            `json:"added"`
	Failures []FailureResponse   `json:"failures"`
	Messages []collector.Message `json:"messages"`
}

type ListResponse struct {
	Terms []knowledge.Entry `json:"terms"`
}

func (s *Server) listTerms(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.All(r.Context())
	if err != nil {
		s.logger.Error("failed to load terms", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to load terms")
		return
	}
	s.respondJSON(w, http.StatusOK, ListResponse{Terms: entries})
}

func (s *Server) getTerm(w http.ResponseWriter, r *http.Request) {
	term, err := url.PathUnescape(chi.URLParam(r, "term"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid term")
		return
	}

	entry, err := s.repo.Get(r.Context(), term)
	if err != nil {
		s.logger.Error("failed to get a term", "term", term, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to get the term")
		return
	}
	if entry == nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("term %q not found", knowledge.Key(term)))
		return
	}
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) collectTerms(w http.ResponseWriter, r *http.Request) {
	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validateStruct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.BatchSize == 0 {
		req.BatchSize = s.options.DefaultBatchSize
	}

	var messages collector.Messages
	result, err := s.collect(r, collector.ParseTerms(strings.Join(req.Terms, ",")), req.BatchSize, &messages)
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "collection interrupted: "+err.Error())
		return
	}

	response := CollectResponse{
		Added:    result.Added,
		Failures: []FailureResponse{},
		Messages: messages.Items(),
	}
	if response.Added == nil {
		response.Added = []string{}
	}
	for _, failure := range result.Failures {
		response.Failures = append(response.Failures, FailureResponse{
			Term:  failure.Term,
			Error: failure.Err.Error(),
		})
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return errors.New(strings.Join(messages, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]any{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
