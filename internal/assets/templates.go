package assets

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

const (
	knowledgeBaseTemplateName = "knowledge-base.md.go.tmpl"
	DefaultTitle              = "Astrology, Music, and Mathematics Knowledge Base"
)

//go:embed templates/knowledge-base.md.go.tmpl
var fallbackKnowledgeBaseTemplate string

// KnowledgeBaseTemplate is the data passed to the markdown template
type KnowledgeBaseTemplate struct {
	Title   string
	Entries []knowledge.Entry
}

// ParseKnowledgeBaseTemplate parses the template at templatePath.
// The embedded template is used when the path is empty, missing or invalid.
func ParseKnowledgeBaseTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, knowledgeBaseTemplateName, fallbackKnowledgeBaseTemplate)
}

func WriteKnowledgeBase(output io.Writer, templatePath string, entries []knowledge.Entry) error {
	tmpl, err := ParseKnowledgeBaseTemplate(templatePath)
	if err != nil {
		return err
	}
	data := KnowledgeBaseTemplate{
		Title:   DefaultTitle,
		Entries: entries,
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

func parseTemplateWithFallback(templatePath string, fallbackName string, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
