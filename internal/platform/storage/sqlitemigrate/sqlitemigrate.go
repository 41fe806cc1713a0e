// Package sqlitemigrate applies embedded SQL migrations to SQLite databases.
package sqlitemigrate

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ErrChecksumMismatch reports an applied migration whose file changed since.
var ErrChecksumMismatch = errors.New("applied migration content changed")

// Apply executes the .sql files under root in lexical order, each at most
// once, recording name and content checksum in schema_migrations.
func Apply(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, root string) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    checksum TEXT NOT NULL,
    applied_at INTEGER NOT NULL
);`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		key := file
		if root != "." {
			key = path.Join(root, file)
		}
		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if err := applyOne(ctx, sqlDB, key, string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", key, err)
		}
	}
	return nil
}

func applyOne(ctx context.Context, sqlDB *sql.DB, key, content string) error {
	sum := checksum(content)

	var stored string
	err := sqlDB.QueryRowContext(ctx, "SELECT checksum FROM "+migrationTable+" WHERE name = ?", key).Scan(&stored)
	switch {
	case err == nil:
		if stored != sum {
			return ErrChecksumMismatch
		}
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check applied: %w", err)
	}

	upSQL := UpSection(content)
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if strings.TrimSpace(upSQL) != "" {
		if _, err := tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
			_ = tx.Rollback()
			return fmt.Errorf("exec: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+migrationTable+" (name, checksum, applied_at) VALUES (?, ?, ?)",
		key, sum, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpSection returns the SQL between the Up and Down markers. Files without
// markers are treated as all-Up.
func UpSection(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(body, downMarker); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}

// IsAlreadyExistsError reports whether err indicates idempotent DDL success.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func checksum(content string) string {
	digest := sha256.Sum256([]byte(content))
	return hex.EncodeToString(digest[:])
}
