package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMarkdown = "# Knowledge Base\n\n## saturn\n\n### Astrology\n\nThe planet of discipline.\n\n- Key points: structure, time\n- Example: Saturn return.\n"

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		pdfPath func(t *testing.T) string
		wantErr bool
	}{
		{
			name:    "writes the pdf",
			pdfPath: func(t *testing.T) string { return filepath.Join(t.TempDir(), "knowledge_base.pdf") },
		},
		{
			name:    "rejects other extensions",
			pdfPath: func(t *testing.T) string { return filepath.Join(t.TempDir(), "knowledge_base.txt") },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pdfPath := tc.pdfPath(t)
			err := Render([]byte(testMarkdown), pdfPath)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			info, err := os.Stat(pdfPath)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}
