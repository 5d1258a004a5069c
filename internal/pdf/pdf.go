// Package pdf renders markdown reports as PDF documents.
package pdf

import (
	"fmt"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// Render writes markdown content as a PDF file at pdfPath
func Render(markdown []byte, pdfPath string) error {
	if !strings.HasSuffix(pdfPath, ".pdf") {
		return fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(markdown); err != nil {
		return fmt.Errorf("renderer.Process() > %w", err)
	}
	return nil
}
