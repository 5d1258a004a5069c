// Package server serves the knowledge base web UI and JSON API.
package server

import (
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/michaelanticoli/quantumelodic/internal/collector"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

//go:embed templates/index.html.go.tmpl
var indexTemplate string

type Options struct {
	AllowedOrigins   []string
	DefaultBatchSize int
	MarkdownTemplate string
	Logger           *slog.Logger
}

type Server struct {
	collector *collector.Collector
	repo      knowledge.Repository
	options   Options
	logger    *slog.Logger
	page      *template.Template
	validate  *validator.Validate

	// collectMu serializes collections so the request delay holds across submissions
	collectMu sync.Mutex
}

func New(c *collector.Collector, repo knowledge.Repository, options Options) (*Server, error) {
	page, err := template.New("index.html.go.tmpl").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("template.Parse(index) > %w", err)
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if options.DefaultBatchSize == 0 {
		options.DefaultBatchSize = collector.DefaultBatchSize
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		collector: c,
		repo:      repo,
		options:   options,
		logger:    logger,
		page:      page,
		validate:  validate,
	}, nil
}

// Handler configures all routes and middleware
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(s.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.options.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/health", s.health)

	router.Get("/", s.index)
	router.Post("/terms", s.submitTerms)
	router.Get("/knowledge_base.csv", s.downloadCSV)
	router.Get("/knowledge_base.md", s.downloadMarkdown)

	router.Route("/api/terms", func(r chi.Router) {
		r.Get("/", s.listTerms)
		r.Post("/", s.collectTerms)
		r.Get("/{term}", s.getTerm)
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// collect runs one collection at a time
func (s *Server) collect(r *http.Request, terms []string, batchSize int, reporter collector.Reporter) (collector.Result, error) {
	s.collectMu.Lock()
	defer s.collectMu.Unlock()
	return s.collector.Collect(r.Context(), terms, batchSize, reporter)
}
