// Package sqlite es el backend documental embebido (archivo o :memory:) sobre modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"livestock-records/internal/adapters/storage/sqldoc"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const memoryPath = ":memory:"

// NewStore abre path (vacío = en memoria). Una sola conexión: SQLite serializa escrituras de todos modos
// y una base :memory: vive en su conexión.
func NewStore(ctx context.Context, path string) (*sqldoc.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = memoryPath
	}
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s, err := sqldoc.New(ctx, db, Dialect())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func Dialect() sqldoc.Dialect {
	return sqldoc.Dialect{
		Name: "sqlite",
		Schema: []string{
			`PRAGMA busy_timeout = 5000`,
			`CREATE TABLE IF NOT EXISTS documents (
				collection  TEXT NOT NULL,
				id          TEXT NOT NULL,
				natural_key TEXT NULL,
				body        TEXT NOT NULL,
				PRIMARY KEY (collection, id),
				UNIQUE (collection, natural_key)
			)`,
			`CREATE TABLE IF NOT EXISTS counters (
				name           TEXT PRIMARY KEY,
				sequence_value INTEGER NOT NULL
			)`,
		},

		Insert:          `INSERT INTO documents (collection, id, natural_key, body) VALUES (?, ?, ?, ?)`,
		SelectAll:       `SELECT id, body FROM documents WHERE collection = ? ORDER BY id`,
		SelectByKey:     `SELECT id, body FROM documents WHERE collection = ? AND natural_key = ?`,
		SelectForUpdate: `SELECT body FROM documents WHERE collection = ? AND id = ?`,
		Update:          `UPDATE documents SET natural_key = ?, body = ? WHERE collection = ? AND id = ?`,
		Delete:          `DELETE FROM documents WHERE collection = ? AND id = ?`,
		SelectUnkeyed:   `SELECT id, body FROM documents WHERE collection = ? AND natural_key IS NULL ORDER BY id`,
		SetKey:          `UPDATE documents SET natural_key = ? WHERE collection = ? AND id = ?`,

		IsUniqueViolation: IsUniqueViolation,
		NextSequence: sqldoc.ReturningSequence(`
			INSERT INTO counters (name, sequence_value) VALUES (?, 1)
			ON CONFLICT (name) DO UPDATE SET sequence_value = sequence_value + 1
			RETURNING sequence_value`),
	}
}

func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
