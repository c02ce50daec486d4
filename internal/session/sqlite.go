package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	state TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_updated_at ON sessions (updated_at)`

// SQLiteStore is a Store that persists JSON-encoded state in a SQLite file.
type SQLiteStore[S any] struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// sessions table exists.
func OpenSQLite[S any](ctx context.Context, path string) (*SQLiteStore[S], error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createSessionsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &SQLiteStore[S]{db: db}, nil
}

func (s *SQLiteStore[S]) Create(ctx context.Context, id string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO sessions (id, state, updated_at) VALUES (?, ?, ?)",
		id, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert session %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert session %s: %w", id, err)
	}
	if n == 0 {
		return ErrExists
	}
	return nil
}

func (s *SQLiteStore[S]) Get(ctx context.Context, id string) (S, error) {
	return s.get(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore[S]) get(ctx context.Context, q queryer, id string) (S, error) {
	var (
		state S
		data  string
	)

	err := q.QueryRowContext(ctx, "SELECT state FROM sessions WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return state, ErrNotFound
	}
	if err != nil {
		return state, fmt.Errorf("read session %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return state, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, nil
}

func (s *SQLiteStore[S]) Update(ctx context.Context, id string, fn func(S) S) (S, error) {
	var zero S

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin update %s: %w", id, err)
	}
	defer tx.Rollback()

	state, err := s.get(ctx, tx, id)
	if err != nil {
		return zero, err
	}

	state = fn(state)
	data, err := json.Marshal(state)
	if err != nil {
		return zero, fmt.Errorf("encode session %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE sessions SET state = ?, updated_at = ? WHERE id = ?",
		string(data), time.Now().Unix(), id); err != nil {
		return zero, fmt.Errorf("write session %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit session %s: %w", id, err)
	}
	return state, nil
}

func (s *SQLiteStore[S]) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore[S]) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore[S]) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE updated_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore[S]) Close() error {
	return s.db.Close()
}
