// Package sqlite provides a SQLite-backed save slot store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/shelfsim/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/shelfsim/internal/services/sim/storage"
	"github.com/louisbranch/shelfsim/internal/services/sim/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists save slots in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite slot store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put replaces the payload of slot in a single statement.
func (s *Store) Put(ctx context.Context, slot string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return storage.ErrSlotRequired
	}
	if payload == nil {
		payload = []byte{}
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO save_slots (name, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot, payload, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put slot %s: %w", slot, err)
	}
	return nil
}

// Get returns the payload of slot.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return nil, storage.ErrSlotRequired
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM save_slots WHERE name = ?`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return payload, nil
}

// UpdatedAt returns when slot was last written.
func (s *Store) UpdatedAt(ctx context.Context, slot string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if s == nil || s.sqlDB == nil {
		return time.Time{}, fmt.Errorf("storage is not configured")
	}
	var millis int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT updated_at FROM save_slots WHERE name = ?`, strings.TrimSpace(slot)).Scan(&millis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, storage.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("get slot %s timestamp: %w", slot, err)
	}
	return time.UnixMilli(millis).UTC(), nil
}
