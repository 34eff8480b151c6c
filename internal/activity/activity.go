// Package activity keeps a local, append-only log of the mutations this
// client performed: which entity, what happened, when. It exists purely for
// the `dayplan activity` command; no store ever reads it back for state.
package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one recorded mutation.
type Entry struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}

// Log is a SQLite-backed activity log. The zero value is unusable; use Open.
type Log struct {
	db *sql.DB
}

// Open creates or opens the activity database at path.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when two invocations overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	schema := `
CREATE TABLE IF NOT EXISTS activity (
	id TEXT PRIMARY KEY,
	ts TEXT NOT NULL,
	type TEXT NOT NULL,
	entity_id TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL DEFAULT 'null'
);
CREATE INDEX IF NOT EXISTS idx_activity_ts ON activity(ts);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the database handle.
func (l *Log) Close() error { return l.db.Close() }

// Record appends one entry. It satisfies the stores' Recorder interface and
// swallows failures: the log is best-effort observability, never a reason to
// fail a mutation.
func (l *Log) Record(typ, entityID string, payload any) {
	_ = l.Append(context.Background(), typ, entityID, payload)
}

// Append appends one entry and reports failures.
func (l *Log) Append(ctx context.Context, typ, entityID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte("null")
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO activity (id, ts, type, entity_id, payload) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(),
		time.Now().UTC().Format(time.RFC3339Nano),
		typ,
		entityID,
		string(body),
	)
	return err
}

// Tail returns the last limit entries in chronological order. limit <= 0
// returns everything.
func (l *Log) Tail(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, ts, type, entity_id, payload FROM activity ORDER BY ts DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts, payload string
		if err := rows.Scan(&e.ID, &ts, &e.Type, &e.EntityID, &payload); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.TS = t
		}
		var v any
		if err := json.Unmarshal([]byte(payload), &v); err == nil {
			e.Payload = v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Newest-first from the query; flip to chronological.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
