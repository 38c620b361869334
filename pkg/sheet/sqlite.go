package sheet

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite stores rows in a single table of a local SQLite database.
// UPDATE and DELETE are rejected by triggers so the table stays append-only.
type SQLite struct {
	db     *sql.DB
	table  string
	header []string
	insert string
}

// OpenSQLite opens (creating if needed) the database at path and the table
// holding rows with the given header.
func OpenSQLite(ctx context.Context, path, table string, header []string) (*SQLite, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("sheet %s: empty header", table)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db, table: table, header: append([]string(nil), header...)}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = quote(h)
		marks[i] = "?"
	}
	s.insert = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(cols, ", "), strings.Join(marks, ", "))

	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	cols := make([]string, len(s.header))
	for i, h := range s.header {
		cols[i] = quote(h) + " TEXT NOT NULL"
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (row INTEGER PRIMARY KEY AUTOINCREMENT, %s)",
			quote(s.table), strings.Join(cols, ", ")),
		fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS %s BEFORE UPDATE ON %s BEGIN SELECT RAISE(ABORT, 'sheet is append-only'); END",
			quote(s.table+"_no_update"), quote(s.table)),
		fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS %s BEFORE DELETE ON %s BEGIN SELECT RAISE(ABORT, 'sheet is append-only'); END",
			quote(s.table+"_no_delete"), quote(s.table)),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate sheet %s: %w", s.table, err)
		}
	}
	return nil
}

func (s *SQLite) AppendRow(ctx context.Context, row []string) error {
	if err := checkWidth(s.header, row); err != nil {
		return err
	}

	args := make([]any, len(row))
	for i, cell := range row {
		args[i] = cell
	}
	if _, err := s.db.ExecContext(ctx, s.insert, args...); err != nil {
		return fmt.Errorf("error appending row to %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(s.table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting rows in %s: %w", s.table, err)
	}
	return n, nil
}

// Rows returns every data row in insertion order
func (s *SQLite) Rows(ctx context.Context) ([][]string, error) {
	cols := make([]string, len(s.header))
	for i, h := range s.header {
		cols[i] = quote(h)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY row", strings.Join(cols, ", "), quote(s.table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", s.table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]string, len(s.header))
		ptrs := make([]any, len(cells))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", s.table, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// DB exposes the underlying handle
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
