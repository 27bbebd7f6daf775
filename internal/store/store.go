// Package store provides the SQLite storage layer for tagline.
//
// Parse runs are persisted as a message row plus one row per extracted
// entity, so annotation history can be queried by type later without
// re-parsing the original text.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hurttlocker/tagline"
)

// Message is one persisted parse run.
type Message struct {
	ID       int64
	Content  string
	Source   string
	ParsedAt time.Time
}

// Entity is one persisted annotation, denormalized from tagline.Entity
// with its owning message.
type Entity struct {
	ID          int64
	MessageID   int64
	Type        string
	Kind        string
	Value       string
	Formatted   string
	Position    int
	EndPosition int
	CreatedAt   time.Time
}

// ListOpts controls filtering and pagination for ListEntities.
type ListOpts struct {
	Type   string // empty = all types
	Limit  int
	Offset int
}

// Stats holds observability counters for the store.
type Stats struct {
	MessageCount int64
	EntityCount  int64
	TypeCounts   map[string]int64
	DBSizeBytes  int64
}

// StoreConfig holds configuration for NewStore.
type StoreConfig struct {
	DBPath string
}

// Store defines the persistence interface.
type Store interface {
	SaveParse(ctx context.Context, source string, res *tagline.Result) (int64, error)
	GetMessage(ctx context.Context, id int64) (*Message, error)
	ListEntities(ctx context.Context, opts ListOpts) ([]*Entity, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// DefaultListLimit caps ListEntities when no limit is given.
const DefaultListLimit = 100

// NewStore opens (creating if needed) the database at cfg.DBPath.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg StoreConfig) (Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("store: db path is required")
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveParse stores the message and all its entities in one transaction and
// returns the new message id.
func (s *SQLiteStore) SaveParse(ctx context.Context, source string, res *tagline.Result) (int64, error) {
	if res == nil {
		return 0, fmt.Errorf("result is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO messages (content, source, parsed_at) VALUES (?, ?, ?)`,
		res.Message, source, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting message: %w", err)
	}
	msgID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading message id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (message_id, type, kind, value, formatted, position, end_position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("preparing entity insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range res.Entities {
		if _, err := stmt.ExecContext(ctx,
			msgID, e.Type, string(e.Kind), e.Value, e.Formatted, e.Start, e.End, now,
		); err != nil {
			return 0, fmt.Errorf("inserting entity %q: %w", e.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing parse: %w", err)
	}
	return msgID, nil
}

// GetMessage returns one message by id, or an error if it doesn't exist.
func (s *SQLiteStore) GetMessage(ctx context.Context, id int64) (*Message, error) {
	var m Message
	var parsedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, source, parsed_at FROM messages WHERE id = ?`, id,
	).Scan(&m.ID, &m.Content, &m.Source, &parsedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying message %d: %w", id, err)
	}
	m.ParsedAt, _ = time.Parse(time.RFC3339, parsedAt)
	return &m, nil
}

// ListEntities returns stored entities, newest message first, position
// order within a message.
func (s *SQLiteStore) ListEntities(ctx context.Context, opts ListOpts) ([]*Entity, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, message_id, type, kind, value, formatted, position, end_position, created_at
		FROM entities`
	args := []any{}
	if opts.Type != "" {
		query += ` WHERE type = ?`
		args = append(args, opts.Type)
	}
	query += ` ORDER BY message_id DESC, position ASC LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var out []*Entity
	for rows.Next() {
		var e Entity
		var createdAt string
		if err := rows.Scan(&e.ID, &e.MessageID, &e.Type, &e.Kind, &e.Value,
			&e.Formatted, &e.Position, &e.EndPosition, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Stats returns row counts, per-type entity counts, and the db file size.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{TypeCounts: map[string]int64{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&st.MessageCount); err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entities`).Scan(&st.EntityCount); err != nil {
		return nil, fmt.Errorf("counting entities: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM entities GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("counting entity types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		st.TypeCounts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.dbPath != ":memory:" {
		if fi, err := os.Stat(s.dbPath); err == nil {
			st.DBSizeBytes = fi.Size()
		}
	}
	return st, nil
}
