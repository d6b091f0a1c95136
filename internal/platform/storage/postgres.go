package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/db"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects and applies the session schema migrations.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	migrations, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := db.Migrate(ctx, pool, migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, sessionID, key string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx, `
    SELECT value FROM portal_session_values
    WHERE session_id = $1 AND key = $2
  `, sessionID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, sessionID, key, value string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
    INSERT INTO portal_session_values (session_id, key, value, updated_at)
    VALUES ($1,$2,$3,now())
    ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
  `, sessionID, key, value); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := touch(ctx, tx, sessionID); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
    DELETE FROM portal_session_values
    WHERE session_id = $1 AND key = ANY($2)
  `, sessionID, keys); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := touch(ctx, tx, sessionID); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Touch(ctx context.Context, sessionID string) error {
	_, err := p.pool.Exec(ctx, `
    INSERT INTO portal_sessions (session_id, last_seen_at) VALUES ($1, now())
    ON CONFLICT (session_id) DO UPDATE SET last_seen_at = now()
  `, sessionID)
	return err
}

func (p *Postgres) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := tx.Query(ctx, `
    DELETE FROM portal_sessions WHERE last_seen_at < $1
    RETURNING session_id
  `, cutoff)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			_ = tx.Rollback(ctx)
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		_ = tx.Rollback(ctx)
		return 0, err
	}
	if len(ids) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM portal_session_values WHERE session_id = ANY($1)`, ids); err != nil {
			_ = tx.Rollback(ctx)
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

func touch(ctx context.Context, tx pgx.Tx, sessionID string) error {
	_, err := tx.Exec(ctx, `
    INSERT INTO portal_sessions (session_id, last_seen_at) VALUES ($1, now())
    ON CONFLICT (session_id) DO UPDATE SET last_seen_at = now()
  `, sessionID)
	return err
}
