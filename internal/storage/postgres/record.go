package postgres

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	DefaultTable = "records"

	existingChunkSize = 1000
)

// RecordStore is a sink that keeps the converted payload of every live record in a table.
type RecordStore struct {
	db    *sqlx.DB
	table string
}

func NewRecordStore(db *sqlx.DB, table string) *RecordStore {
	if table == "" {
		table = DefaultTable
	}
	return &RecordStore{db: db, table: pq.QuoteIdentifier(table)}
}

func (s *RecordStore) Upload(ctx context.Context, identifier string, payload []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (identifier, payload)
		VALUES ($1, $2)
		ON CONFLICT (identifier) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()`, s.table)

	if _, err := s.db.ExecContext(ctx, query, identifier, string(payload)); err != nil {
		return fmt.Errorf("upsert %s: %w", identifier, err)
	}
	return nil
}

// Delete removes the record. Deleting an unknown identifier is not an error.
func (s *RecordStore) Delete(ctx context.Context, identifier string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE identifier = $1`, s.table)
	if _, err := s.db.ExecContext(ctx, query, identifier); err != nil {
		return fmt.Errorf("delete %s: %w", identifier, err)
	}
	return nil
}

// Existing returns the subset of identifiers present in the table with their last update time.
func (s *RecordStore) Existing(ctx context.Context, identifiers []string) (map[string]time.Time, error) {
	if len(identifiers) == 0 {
		return make(map[string]time.Time), nil
	}

	query := fmt.Sprintf(`SELECT identifier, updated_at FROM %s WHERE identifier = ANY($1)`, s.table)

	rows, err := s.db.QueryContext(ctx, query, pq.Array(identifiers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var updatedAt time.Time
		if err := rows.Scan(&id, &updatedAt); err != nil {
			return nil, err
		}
		result[id] = updatedAt
	}

	return result, rows.Err()
}

// Missing returns the identifiers among ids that have no row in the table,
// looking them up in chunks.
func (s *RecordStore) Missing(ctx context.Context, ids iter.Seq[string]) ([]string, error) {
	var missing []string
	chunk := make([]string, 0, existingChunkSize)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		found, err := s.Existing(ctx, chunk)
		if err != nil {
			return err
		}
		for _, id := range chunk {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		chunk = chunk[:0]
		return nil
	}

	for id := range ids {
		chunk = append(chunk, id)
		if len(chunk) == existingChunkSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return missing, nil
}

func (s *RecordStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table))
	return count, err
}
