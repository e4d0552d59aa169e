// Package store persists conversation transcripts in SQLite so past review
// sessions can be listed and replayed.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/codereview-agent/codereview/internal/chat"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    provider TEXT NOT NULL,
    model TEXT NOT NULL,
    created_unix INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    session_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, seq),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);`

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Summary describes one stored session.
type Summary struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  int       `json:"messages"`
}

// Store is a SQLite transcript database. It implements session.Recorder.
type Store struct {
	db       *sql.DB
	provider string
	model    string
}

// Open opens (creating if needed) the database at path. provider and model
// are stamped on sessions created through Record.
func Open(path, provider, model string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating history directory")
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "opening history database")
	}
	// A single connection keeps ":memory:" databases consistent.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "applying history schema")
	}
	return &Store{db: db, provider: provider, model: model}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one message of a session, creating the session row on first
// use.
func (s *Store) Record(ctx context.Context, sessionID string, seq int, msg chat.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, provider, model, created_unix) VALUES (?, ?, ?, ?)`,
		sessionID, s.provider, s.model, time.Now().Unix()); err != nil {
		return errors.Wrap(err, "creating session")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, seq, role, content) VALUES (?, ?, ?, ?)`,
		sessionID, seq, string(msg.Role), msg.Content); err != nil {
		return errors.Wrapf(err, "inserting message %d", seq)
	}
	return errors.Wrap(tx.Commit(), "committing message")
}

// List returns the most recent sessions first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT s.id, s.provider, s.model, s.created_unix, COUNT(m.seq)
        FROM sessions s
        LEFT JOIN messages m ON m.session_id = s.id
        GROUP BY s.id
        ORDER BY s.created_unix DESC, s.rowid DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing sessions")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created int64
		if err := rows.Scan(&sum.ID, &sum.Provider, &sum.Model, &created, &sum.Messages); err != nil {
			return nil, errors.Wrap(err, "scanning session")
		}
		sum.CreatedAt = time.Unix(created, 0)
		out = append(out, sum)
	}
	return out, errors.Wrap(rows.Err(), "iterating sessions")
}

// Messages returns the transcript of a session in history order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "looking up session")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "reading messages")
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, errors.Wrap(err, "scanning message")
		}
		out = append(out, chat.NewMessage(chat.Role(role), content))
	}
	return out, errors.Wrap(rows.Err(), "iterating messages")
}

// Delete removes a session and its messages.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, sessionID)
	}
	return nil
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
