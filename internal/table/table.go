// Package table renders the knowledge base as a flat table and CSV.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"github.com/michaelanticoli/quantumelodic/internal/knowledge"
)

const (
	FileName      = "knowledge_base.csv"
	ContentType   = "text/csv"
	keyPointsJoin = ", "
)

// Columns are the table headers in display order
var Columns = []string{
	"Term",
	"Astrology Definition",
	"Astrology Key Points",
	"Astrology Example",
	"Music Analogy",
	"Music Key Points",
	"Music Example",
	"Mathematics Concept",
	"Mathematics Key Points",
	"Mathematics Example",
}

var ErrInvalidHeader = errors.New("invalid csv header")

// Row flattens an entry into table cells. Line breaks are stored as "\n",
// the form encoding/csv reads back from a quoted field.
func Row(entry knowledge.Entry) []string {
	row := []string{
		entry.Term,
		entry.Astrology.Definition,
		strings.Join(entry.Astrology.KeyPoints, keyPointsJoin),
		entry.Astrology.Example,
		entry.Music.Analogy,
		strings.Join(entry.Music.KeyPoints, keyPointsJoin),
		entry.Music.Example,
		entry.Mathematics.Concept,
		strings.Join(entry.Mathematics.KeyPoints, keyPointsJoin),
		entry.Mathematics.Example,
	}
	for i, cell := range row {
		row[i] = strings.ReplaceAll(cell, "\r\n", "\n")
	}
	return row
}

func Rows(entries []knowledge.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, Row(entry))
	}
	return rows
}

// WriteCSV writes a header row followed by one row per entry
func WriteCSV(w io.Writer, entries []knowledge.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writer.Write(header) > %w", err)
	}
	if err := writer.WriteAll(Rows(entries)); err != nil {
		return fmt.Errorf("writer.WriteAll() > %w", err)
	}
	return nil
}

// ReadCSV reads rows written by WriteCSV, without the header
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Columns)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reader.ReadAll() > %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidHeader)
	}
	if !slices.Equal(records[0], Columns) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, records[0])
	}
	return records[1:], nil
}

// EntryFromRow rebuilds an entry from a table row
func EntryFromRow(row []string) (knowledge.Entry, error) {
	if len(row) != len(Columns) {
		return knowledge.Entry{}, fmt.Errorf("row has %d columns, want %d", len(row), len(Columns))
	}
	return knowledge.Entry{
		Term: knowledge.Key(row[0]),
		Astrology: inference.AstrologyDescription{
			Definition: row[1],
			KeyPoints:  splitKeyPoints(row[2]),
			Example:    row[3],
		},
		Music: inference.MusicDescription{
			Analogy:   row[4],
			KeyPoints: splitKeyPoints(row[5]),
			Example:   row[6],
		},
		Mathematics: inference.MathematicsDescription{
			Concept:   row[7],
			KeyPoints: splitKeyPoints(row[8]),
			Example:   row[9],
		},
	}, nil
}

func splitKeyPoints(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, keyPointsJoin)
}
