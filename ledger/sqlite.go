package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists reply records in a SQLite database. The
// (username, comment) pair is the primary key, so appends are idempotent
// at the storage layer too.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and initializes
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS replies (
		username TEXT NOT NULL,
		comment TEXT NOT NULL,
		replied_at DATETIME NOT NULL,
		PRIMARY KEY (username, comment)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Load returns all recorded replies in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]Record, error) {
	query := `SELECT username, comment FROM replies ORDER BY replied_at, username`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Username, &rec.Comment); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Save inserts every record in the given sequence, ignoring rows already
// present. Records whose earlier persist attempt failed are picked up by
// the next successful call.
func (s *SQLiteStore) Save(ctx context.Context, records []Record) error {
	query := `INSERT OR IGNORE INTO replies (username, comment, replied_at) VALUES (?, ?, ?)`
	for _, rec := range records {
		if _, err := s.conn.ExecContext(ctx, query, rec.Username, rec.Comment, time.Now()); err != nil {
			return err
		}
	}
	return nil
}
