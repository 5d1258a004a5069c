package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type entryRecord struct {
	ID          int64           `db:"id"`
	Term        string          `db:"term"`
	Astrology   json.RawMessage `db:"astrology"`
	Music       json.RawMessage `db:"music"`
	Mathematics json.RawMessage `db:"mathematics"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (record entryRecord) toEntry() (Entry, error) {
	entry := Entry{Term: record.Term}
	if err := json.Unmarshal(record.Astrology, &entry.Astrology); err != nil {
		return Entry{}, fmt.Errorf("json.Unmarshal(astrology of %s) > %w", record.Term, err)
	}
	if err := json.Unmarshal(record.Music, &entry.Music); err != nil {
		return Entry{}, fmt.Errorf("json.Unmarshal(music of %s) > %w", record.Term, err)
	}
	if err := json.Unmarshal(record.Mathematics, &entry.Mathematics); err != nil {
		return Entry{}, fmt.Errorf("json.Unmarshal(mathematics of %s) > %w", record.Term, err)
	}
	return entry, nil
}

// DBRepository implements Repository using MySQL.
// Insertion order follows the auto-increment id, which an upsert keeps.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

const selectEntries = "SELECT id, term, astrology, music, mathematics, created_at, updated_at FROM knowledge_entries"

func (r *DBRepository) All(ctx context.Context) ([]Entry, error) {
	var records []entryRecord
	if err := r.db.SelectContext(ctx, &records, selectEntries+" ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(knowledge_entries) > %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entry, err := record.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *DBRepository) Get(ctx context.Context, term string) (*Entry, error) {
	var record entryRecord
	err := r.db.GetContext(ctx, &record, selectEntries+" WHERE term = ?", Key(term))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(knowledge_entry) > %w", err)
	}

	entry, err := record.toEntry()
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *DBRepository) Add(ctx context.Context, entry Entry) error {
	key := Key(entry.Term)
	if key == "" {
		return fmt.Errorf("term must not be empty")
	}

	astrology, err := json.Marshal(entry.Astrology)
	if err != nil {
		return fmt.Errorf("json.Marshal(astrology) > %w", err)
	}
	music, err := json.Marshal(entry.Music)
	if err != nil {
		return fmt.Errorf("json.Marshal(music) > %w", err)
	}
	mathematics, err := json.Marshal(entry.Mathematics)
	if err != nil {
		return fmt.Errorf("json.Marshal(mathematics) > %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO knowledge_entries (term, astrology, music, mathematics)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE astrology = VALUES(astrology), music = VALUES(music), mathematics = VALUES(mathematics)`,
		key, astrology, music, mathematics)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert knowledge_entry) > %w", err)
	}
	return nil
}
