package datasync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
	mock_knowledge "github.com/michaelanticoli/quantumelodic/internal/mocks/knowledge"
	"github.com/michaelanticoli/quantumelodic/internal/table"
)

func newEntry(term, definition string) knowledge.Entry {
	return knowledge.Entry{
		Term: term,
		Astrology: inference.AstrologyDescription{
			Definition: definition,
			KeyPoints:  []string{"cycles", "returns"},
			Example:    "Saturn return",
		},
		Music: inference.MusicDescription{
			Analogy:   "a recurring theme",
			KeyPoints: []string{"repetition"},
			Example:   "a leitmotif",
		},
		Mathematics: inference.MathematicsDescription{
			Concept:   "periodicity",
			KeyPoints: []string{"period"},
			Example:   "cos(x)",
		},
	}
}

func TestImporter_Import(t *testing.T) {
	saturn := newEntry("saturn", "a planet")
	changed := newEntry("saturn", "the ringed planet")
	octave := newEntry("octave", "a doubling")

	tests := []struct {
		name       string
		entries    []knowledge.Entry
		opts       ImportOptions
		setup      func(repo *mock_knowledge.MockRepository)
		want       *ImportResult
		wantOutput string
	}{
		{
			name:    "new entry is added",
			entries: []knowledge.Entry{octave},
			setup: func(repo *mock_knowledge.MockRepository) {
				repo.EXPECT().Get(gomock.Any(), "octave").Return(nil, nil)
				repo.EXPECT().Add(gomock.Any(), octave).Return(nil)
			},
			want:       &ImportResult{New: 1},
			wantOutput: "  [NEW]  \"octave\"\n",
		},
		{
			name:    "existing entry is skipped by default",
			entries: []knowledge.Entry{changed},
			setup: func(repo *mock_knowledge.MockRepository) {
				repo.EXPECT().Get(gomock.Any(), "saturn").Return(&saturn, nil)
			},
			want:       &ImportResult{Skipped: 1},
			wantOutput: "  [SKIP]  \"saturn\"\n",
		},
		{
			name:    "existing entry is updated",
			entries: []knowledge.Entry{changed},
			opts:    ImportOptions{UpdateExisting: true},
			setup: func(repo *mock_knowledge.MockRepository) {
				repo.EXPECT().Get(gomock.Any(), "saturn").Return(&saturn, nil)
				repo.EXPECT().Add(gomock.Any(), changed).Return(nil)
			},
			want:       &ImportResult{Updated: 1},
			wantOutput: "  [UPDATE]  \"saturn\"\n",
		},
		{
			name:    "identical entry is skipped even when updating",
			entries: []knowledge.Entry{saturn},
			opts:    ImportOptions{UpdateExisting: true},
			setup: func(repo *mock_knowledge.MockRepository) {
				repo.EXPECT().Get(gomock.Any(), "saturn").Return(&saturn, nil)
			},
			want:       &ImportResult{Skipped: 1},
			wantOutput: "  [SKIP]  \"saturn\"\n",
		},
		{
			name:    "dry run does not write",
			entries: []knowledge.Entry{octave, changed},
			opts:    ImportOptions{DryRun: true, UpdateExisting: true},
			setup: func(repo *mock_knowledge.MockRepository) {
				repo.EXPECT().Get(gomock.Any(), "octave").Return(nil, nil)
				repo.EXPECT().Get(gomock.Any(), "saturn").Return(&saturn, nil)
			},
			want:       &ImportResult{New: 1, Updated: 1},
			wantOutput: "  [NEW]  \"octave\"\n  [UPDATE]  \"saturn\"\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_knowledge.NewMockRepository(ctrl)
			tc.setup(repo)

			var buf bytes.Buffer
			got, err := NewImporter(repo, &buf).Import(context.Background(), tc.entries, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOutput, buf.String())
		})
	}
}

func TestImporter_Import_UnchangedCSVExport(t *testing.T) {
	ctx := context.Background()
	saturn := newEntry("saturn", "the planet of limits\r\nand time")
	saturn.Music.KeyPoints = []string{"tension, release", "resolution"}

	repo := knowledge.NewMemoryRepository()
	require.NoError(t, repo.Add(ctx, saturn))

	path := filepath.Join(t.TempDir(), table.FileName)
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, table.WriteCSV(file, []knowledge.Entry{saturn}))
	require.NoError(t, file.Close())

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"tension", "release", "resolution"}, entries[0].Music.KeyPoints)

	var buf bytes.Buffer
	got, err := NewImporter(repo, &buf).Import(ctx, entries, ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Skipped: 1}, got)
	assert.Equal(t, "  [SKIP]  \"saturn\"\n", buf.String())

	stored, err := repo.Get(ctx, "saturn")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, saturn, *stored)
}

func TestImporter_Import_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_knowledge.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), "saturn").Return(nil, errors.New("connection lost"))

	_, err := NewImporter(repo, &bytes.Buffer{}).Import(context.Background(), []knowledge.Entry{newEntry("saturn", "a planet")}, ImportOptions{})
	assert.ErrorContains(t, err, "connection lost")
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "knowledge_base.yml")

	source := knowledge.NewMemoryRepository()
	require.NoError(t, source.Add(ctx, newEntry("saturn", "a planet")))
	require.NoError(t, source.Add(ctx, newEntry("octave", "a doubling")))
	require.NoError(t, Save(ctx, source, path))

	snapshot, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Version)
	assert.False(t, snapshot.ExportedAt.IsZero())

	target := knowledge.NewMemoryRepository()
	count, err := Load(ctx, target, path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	want, err := source.All(ctx)
	require.NoError(t, err)
	got, err := target.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_MissingSnapshot(t *testing.T) {
	count, err := Load(context.Background(), knowledge.NewMemoryRepository(), filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReadSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "entries: [\n"},
		{name: "newer version", content: "version: 2\nentries: []\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "snapshot.yml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))
			_, err := ReadSnapshot(path)
			assert.Error(t, err)
		})
	}
}

func TestReadEntries(t *testing.T) {
	entries := []knowledge.Entry{newEntry("saturn", "a planet"), newEntry("octave", "a doubling")}

	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		want    []knowledge.Entry
		wantErr bool
	}{
		{
			name: "yaml snapshot",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "kb.yaml")
				require.NoError(t, WriteSnapshot(path, &Snapshot{Version: 1, Entries: entries}))
				return path
			},
			want: entries,
		},
		{
			name: "csv export",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "kb.csv")
				file, err := os.Create(path)
				require.NoError(t, err)
				defer file.Close()
				require.NoError(t, table.WriteCSV(file, entries))
				return path
			},
			want: entries,
		},
		{
			name: "unsupported extension",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "kb.json")
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadEntries(tc.setup(t))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExporter_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_knowledge.NewMockRepository(ctrl)
	entries := []knowledge.Entry{newEntry("saturn", "a planet")}
	repo.EXPECT().All(gomock.Any()).Return(entries, nil)

	exporter := NewExporter(repo)
	exporter.now = func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)
	}

	got, err := exporter.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Snapshot{
		Version:    1,
		ExportedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Entries:    entries,
	}, got)
}
