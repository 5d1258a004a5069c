package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/michaelanticoli/quantumelodic/internal/assets"
	"github.com/michaelanticoli/quantumelodic/internal/datasync"
	"github.com/michaelanticoli/quantumelodic/internal/pdf"
	"github.com/michaelanticoli/quantumelodic/internal/table"
)

type FormatFlag string

const (
	FormatCSV      FormatFlag = "csv"
	FormatMarkdown FormatFlag = "markdown"
	FormatPDF      FormatFlag = "pdf"
	FormatYAML     FormatFlag = "yaml"
)

// Set implements pflag.Value.
func (f *FormatFlag) Set(v string) error {
	switch FormatFlag(v) {
	case FormatCSV, FormatMarkdown, FormatPDF, FormatYAML:
		*f = FormatFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q, %q or %q", v, FormatCSV, FormatMarkdown, FormatPDF, FormatYAML)
	}
	return nil
}

// String implements pflag.Value.
func (f *FormatFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *FormatFlag) Type() string {
	return "FormatFlag"
}

var (
	_ pflag.Value = (*FormatFlag)(nil)
)

// DefaultOutput returns the file name used when --output is not set
func (f FormatFlag) DefaultOutput() string {
	switch f {
	case FormatMarkdown:
		return "knowledge_base.md"
	case FormatPDF:
		return "knowledge_base.pdf"
	case FormatYAML:
		return "knowledge_base.yml"
	default:
		return table.FileName
	}
}

func newExportCommand() *cobra.Command {
	format := FormatCSV
	var outputPath string
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the knowledge base as CSV, markdown, PDF or a YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			kb, err := openKnowledgeBase(ctx, cfg, snapshotPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = kb.Close()
			}()

			if outputPath == "" {
				outputPath = format.DefaultOutput()
			}
			entries, err := kb.repo.All(ctx)
			if err != nil {
				return fmt.Errorf("repo.All() > %w", err)
			}

			switch format {
			case FormatYAML:
				if err := datasync.Save(ctx, kb.repo, outputPath); err != nil {
					return fmt.Errorf("datasync.Save(%s) > %w", outputPath, err)
				}
			case FormatCSV:
				var buf bytes.Buffer
				if err := table.WriteCSV(&buf, entries); err != nil {
					return err
				}
				if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("os.WriteFile(%s) > %w", outputPath, err)
				}
			case FormatMarkdown, FormatPDF:
				var buf bytes.Buffer
				if err := assets.WriteKnowledgeBase(&buf, cfg.Templates.Markdown, entries); err != nil {
					return fmt.Errorf("assets.WriteKnowledgeBase() > %w", err)
				}
				if format == FormatPDF {
					if err := pdf.Render(buf.Bytes(), outputPath); err != nil {
						return fmt.Errorf("pdf.Render(%s) > %w", outputPath, err)
					}
					break
				}
				if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("os.WriteFile(%s) > %w", outputPath, err)
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d terms to %s\n", len(entries), outputPath)
			return nil
		},
	}
	cmd.Flags().Var(&format, "format", "Output format. Options: csv, markdown, pdf, yaml")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot to read the knowledge base from")
	return cmd
}
