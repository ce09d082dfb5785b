// Package postgres persists cache snapshots so a restarted process can
// rehydrate its result cache with the original store timestamps intact.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"tt-service/internal/cache"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_snapshots (
			key       TEXT PRIMARY KEY,
			category  TEXT NOT NULL,
			data      JSONB NOT NULL,
			stored_at BIGINT NOT NULL
		)`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot replaces the persisted snapshot with the given one. The write
// is destructive: keys absent from the snapshot are removed.
func (s *Storage) SaveSnapshot(ctx context.Context, snapshot cache.Snapshot) error {
	const op = "storage.postgres.SaveSnapshot"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_snapshots`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for key, entry := range snapshot {
		category, _, _ := strings.Cut(key, ":")
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cache_snapshots (key, category, data, stored_at)
			VALUES ($1, $2, $3, $4)`,
			key, category, []byte(entry.Data), entry.Timestamp,
		); err != nil {
			return fmt.Errorf("%s: insert %q: %w", op, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// LoadSnapshot reads the persisted snapshot back, timestamps unchanged.
func (s *Storage) LoadSnapshot(ctx context.Context) (cache.Snapshot, error) {
	const op = "storage.postgres.LoadSnapshot"

	rows, err := s.db.QueryContext(ctx, `SELECT key, data, stored_at FROM cache_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	snapshot := make(cache.Snapshot)
	for rows.Next() {
		var (
			key      string
			data     []byte
			storedAt int64
		)
		if err := rows.Scan(&key, &data, &storedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		snapshot[key] = cache.Entry{Data: data, Timestamp: storedAt}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return snapshot, nil
}
