package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS portal_session_values (
	session_id TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (session_id, key)
);
CREATE INDEX IF NOT EXISTS idx_portal_session_values_updated ON portal_session_values (updated_at);
`

// touchKey is a marker row so that a session with no values still has an activity time.
const touchKey = "_touched"

type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Get(ctx context.Context, sessionID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM portal_session_values WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, sessionID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portal_session_values (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, sessionID, key, value, s.now().UnixNano())
	if err != nil {
		return err
	}
	return s.Touch(ctx, sessionID)
}

func (s *SQLite) Delete(ctx context.Context, sessionID string, keys ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM portal_session_values WHERE session_id = ? AND key = ?`,
			sessionID, key,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return s.Touch(ctx, sessionID)
}

func (s *SQLite) Touch(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portal_session_values (session_id, key, value, updated_at)
		VALUES (?, ?, '', ?)
		ON CONFLICT (session_id, key) DO UPDATE SET updated_at = excluded.updated_at
	`, sessionID, touchKey, s.now().UnixNano())
	return err
}

func (s *SQLite) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	rows, err := tx.QueryContext(ctx, `
		SELECT session_id FROM portal_session_values
		GROUP BY session_id
		HAVING MAX(updated_at) < ?
	`, cutoff.UnixNano())
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			_ = tx.Rollback()
			return 0, err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM portal_session_values WHERE session_id = ?`, id); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (s *SQLite) Close(context.Context) error {
	return s.db.Close()
}
