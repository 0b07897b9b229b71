// Package ledger stores the set of comments that have already been
// answered, durably enough to survive restarts and full re-scrapes.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Record is one answered comment. Comment holds the normalized text.
type Record struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
}

// Store persists reply records. Save receives the ledger's full record
// sequence: after a successful call durable storage reflects exactly
// the in-memory state, so a record whose earlier persist failed is
// carried along by the next successful one.
type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// Ledger is an in-memory membership index backed by a Store. Membership
// is keyed on the exact (username, comment) pair.
type Ledger struct {
	mu      sync.RWMutex
	store   Store
	records []Record
	index   map[string]bool
}

// Open loads a ledger from the store at path, choosing the backend by
// file extension: .db/.sqlite/.sqlite3 use SQLite, anything else a JSON
// file. A missing or unreadable store never blocks startup.
func Open(ctx context.Context, path string) (*Ledger, error) {
	var store Store
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		store = s
	default:
		store = NewFileStore(path)
	}
	return New(ctx, store)
}

// New loads a ledger from the given store.
func New(ctx context.Context, store Store) (*Ledger, error) {
	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	l := &Ledger{
		store:   store,
		records: records,
		index:   make(map[string]bool, len(records)),
	}
	for _, rec := range records {
		l.index[key(rec.Username, rec.Comment)] = true
	}
	return l, nil
}

// Contains reports whether a reply to (author, comment) has already been
// recorded. Comparison is exact equality on both fields.
func (l *Ledger) Contains(author, comment string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.index[key(author, comment)]
}

// Append records an answered comment in memory and then persists the
// whole sequence. If the store write fails the in-memory record is
// kept and the next successful persist includes it, since Save always
// writes the full sequence; the error is returned for reporting.
func (l *Ledger) Append(ctx context.Context, author, comment string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(author, comment)
	if l.index[k] {
		return nil
	}

	l.records = append(l.records, Record{Username: author, Comment: comment})
	l.index[k] = true

	if err := l.store.Save(ctx, l.records); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// Len returns the number of recorded replies.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Close releases the underlying store, if it holds resources.
func (l *Ledger) Close() error {
	if c, ok := l.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func key(author, comment string) string {
	return author + "\x00" + comment
}

// FileStore persists records as a JSON array, rewriting the whole file
// on every append.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a JSON file store at path. The file is created on
// first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads all records. An absent, empty, or malformed file loads as
// an empty ledger: corruption must never block the bot from starting.
func (s *FileStore) Load(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("ledger file malformed, starting empty", "path", s.path, "error", err)
		return nil, nil
	}
	return records, nil
}

// Save rewrites the file with the given record sequence. The write
// goes through a temp file and rename so a crash mid-write leaves the
// previous contents intact.
func (s *FileStore) Save(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
