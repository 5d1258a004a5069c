// Package datasync moves knowledge base entries between snapshot files and a repository.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
	"github.com/michaelanticoli/quantumelodic/internal/table"
)

const snapshotVersion = 1

// Snapshot is the YAML document holding a dump of the knowledge base
type Snapshot struct {
	Version    int               `yaml:"version"`
	ExportedAt time.Time         `yaml:"exported_at"`
	Entries    []knowledge.Entry `yaml:"entries"`
}

// ReadSnapshot reads a snapshot file. A missing file is returned as an error wrapping os.ErrNotExist.
func ReadSnapshot(path string) (*Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(content, &snapshot); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	if snapshot.Version > snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d in %s", snapshot.Version, path)
	}
	return &snapshot, nil
}

func WriteSnapshot(path string, snapshot *Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	return nil
}

// ReadEntries reads entries from a .yml/.yaml snapshot or a .csv export
func ReadEntries(path string) ([]knowledge.Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		snapshot, err := ReadSnapshot(path)
		if err != nil {
			return nil, err
		}
		return snapshot.Entries, nil
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
		}
		defer func() {
			_ = file.Close()
		}()

		rows, err := table.ReadCSV(file)
		if err != nil {
			return nil, fmt.Errorf("table.ReadCSV(%s) > %w", path, err)
		}
		entries := make([]knowledge.Entry, 0, len(rows))
		for i, row := range rows {
			entry, err := table.EntryFromRow(row)
			if err != nil {
				return nil, fmt.Errorf("table.EntryFromRow(row %d) > %w", i+1, err)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// Load adds the entries of a snapshot to repo. A missing snapshot is not an error.
func Load(ctx context.Context, repo knowledge.Repository, path string) (int, error) {
	snapshot, err := ReadSnapshot(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	for _, entry := range snapshot.Entries {
		if err := repo.Add(ctx, entry); err != nil {
			return 0, fmt.Errorf("repo.Add(%s) > %w", entry.Term, err)
		}
	}
	return len(snapshot.Entries), nil
}

// Save writes every entry of repo to a snapshot at path
func Save(ctx context.Context, repo knowledge.Repository, path string) error {
	snapshot, err := NewExporter(repo).Export(ctx)
	if err != nil {
		return err
	}
	return WriteSnapshot(path, snapshot)
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	New     int
	Skipped int
	Updated int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer writes entries into a repository.
type Importer struct {
	repo   knowledge.Repository
	writer io.Writer
}

func NewImporter(repo knowledge.Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

func (imp *Importer) Import(ctx context.Context, entries []knowledge.Entry, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	for _, entry := range entries {
		existing, err := imp.repo.Get(ctx, entry.Term)
		if err != nil {
			return nil, fmt.Errorf("Get(%s) > %w", entry.Term, err)
		}

		if existing != nil {
			if !opts.UpdateExisting || sameDescriptions(*existing, entry) {
				fmt.Fprintf(imp.writer, "  [SKIP]  %q\n", existing.Term)
				result.Skipped++
				continue
			}
			if !opts.DryRun {
				if err := imp.repo.Add(ctx, entry); err != nil {
					return nil, fmt.Errorf("Add(%s) > %w", entry.Term, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [UPDATE]  %q\n", existing.Term)
			result.Updated++
			continue
		}

		if !opts.DryRun {
			if err := imp.repo.Add(ctx, entry); err != nil {
				return nil, fmt.Errorf("Add(%s) > %w", entry.Term, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %q\n", knowledge.Key(entry.Term))
		result.New++
	}

	return &result, nil
}

// sameDescriptions compares the table rows of two entries. A CSV export joins key points
// with ", ", so rows are the finest detail both import sources share.
func sameDescriptions(a, b knowledge.Entry) bool {
	return slices.Equal(table.Row(a)[1:], table.Row(b)[1:])
}

// Exporter reads a repository into a snapshot.
type Exporter struct {
	repo knowledge.Repository
	now  func() time.Time
}

func NewExporter(repo knowledge.Repository) *Exporter {
	return &Exporter{
		repo: repo,
		now:  time.Now,
	}
}

func (e *Exporter) Export(ctx context.Context) (*Snapshot, error) {
	entries, err := e.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.All() > %w", err)
	}
	return &Snapshot{
		Version:    snapshotVersion,
		ExportedAt: e.now().UTC().Truncate(time.Second),
		Entries:    entries,
	}, nil
}
