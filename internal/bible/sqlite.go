package bible

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion is stored in meta.schema_version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS verses (
	book    TEXT    NOT NULL,
	chapter INTEGER NOT NULL,
	verse   INTEGER NOT NULL,
	text    TEXT    NOT NULL,
	PRIMARY KEY (book, chapter, verse)
);`

// LoadSQLite reads every verse from a database written by WriteSQLite.
func LoadSQLite(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	var v string
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&v); err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if n, _ := strconv.Atoi(v); n != schemaVersion {
		return nil, fmt.Errorf("unsupported schema version %q (want %d)", v, schemaVersion)
	}

	rows, err := db.QueryContext(ctx, `SELECT book, chapter, verse, text FROM verses`)
	if err != nil {
		return nil, fmt.Errorf("query verses: %w", err)
	}
	defer rows.Close()

	b := newBuilder()
	for rows.Next() {
		var (
			book   string
			ch, vs int
			text   string
		)
		if err := rows.Scan(&book, &ch, &vs, &text); err != nil {
			return nil, fmt.Errorf("scan verse: %w", err)
		}
		b.add(book, ch, vs, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verses: %w", err)
	}
	return b.finish()
}

// WriteSQLite writes s to a new or existing database at path, replacing any
// verses already stored there.
func WriteSQLite(ctx context.Context, path string, s *Store) (err error) {
	if s == nil || len(s.verses) == 0 {
		return ErrNoData
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { err = errors.Join(err, db.Close()) }()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM verses`); err != nil {
		return fmt.Errorf("clear verses: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO verses(book, chapter, verse, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, v := range s.verses {
		if _, err = stmt.ExecContext(ctx, v.Book, v.Chapter, v.Verse, v.Text); err != nil {
			return fmt.Errorf("insert %s: %w", v.Ref(), err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
