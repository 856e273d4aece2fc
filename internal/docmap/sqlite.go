package docmap

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes. Maps are rebuilt by
// re-running the indexer, so there are no migrations.
const schemaVersion = 1

// ErrSchemaMismatch indicates a SQLite map written by a different schema.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite map: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	return db, nil
}

func writeSQLite(ctx context.Context, path string, m Map) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin map tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO spans (path, ord, start_line, end_line, name, first_paragraph, override) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare span insert: %w", err)
	}
	defer stmt.Close()

	for path, spans := range m {
		for ord, s := range spans {
			var override sql.NullString
			if s.Override != nil {
				override = sql.NullString{String: *s.Override, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, path, ord, s.Start, s.End, s.Name, s.FirstParagraph, override); err != nil {
				return fmt.Errorf("insert span %s:%d: %w", path, s.Start, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit map: %w", err)
	}
	return nil
}

func readSQLite(ctx context.Context, path string) (Map, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var version int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return nil, fmt.Errorf("%w: map has version %d, expected %d (re-run 'logdoc index')",
			ErrSchemaMismatch, version, schemaVersion)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT path, start_line, end_line, name, first_paragraph, override FROM spans ORDER BY path, ord")
	if err != nil {
		return nil, fmt.Errorf("query spans: %w", err)
	}
	defer rows.Close()

	m := Map{}
	for rows.Next() {
		var (
			path     string
			s        Span
			override sql.NullString
		)
		if err := rows.Scan(&path, &s.Start, &s.End, &s.Name, &s.FirstParagraph, &override); err != nil {
			return nil, fmt.Errorf("scan span: %w", err)
		}
		if override.Valid {
			s.Override = OverrideText(override.String)
		}
		m[path] = append(m[path], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spans: %w", err)
	}
	return m, nil
}
