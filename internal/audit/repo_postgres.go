package audit

import (
	"context"
	"database/sql"
	"fmt"

	"wellsync-backend/pkg/utils"
)

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS audit_log_entries (
	id         TEXT PRIMARY KEY,
	timestamp  TIMESTAMPTZ NOT NULL,
	actor      TEXT NOT NULL,
	action     TEXT NOT NULL,
	target     TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT ''
)`

const createEntriesIndex = `
CREATE INDEX IF NOT EXISTS audit_log_entries_timestamp_idx
	ON audit_log_entries (timestamp DESC)`

// PostgresRepo stores entries in audit_log_entries. INSERT and SELECT only.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// EnsureSchema creates the table and index if missing.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range []string{createEntriesTable, createEntriesIndex} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("audit: ensure schema: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log_entries (id, timestamp, actor, action, target, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Timestamp.UTC(), e.Actor, string(e.Action), e.Target, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("audit: append: %w", err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, actor, action, target, notes
		 FROM audit_log_entries
		 ORDER BY timestamp DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			action string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Actor, &action, &e.Target, &e.Notes); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		e.Action = Action(action)
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	return out, nil
}
