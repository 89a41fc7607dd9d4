package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/coworker/internal/core"
	"github.com/sandevgo/coworker/pkg/log"
)

type FactRepo struct {
	db *sql.DB
}

func NewFactRepo(db *sql.DB) *FactRepo {
	return &FactRepo{db: db}
}

func (r *FactRepo) Get(ctx context.Context, key core.FactKey) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM facts WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query fact: %w", err)
	}
	return value, true, nil
}

// Set stores one value per key; an existing value is overwritten.
func (r *FactRepo) Set(ctx context.Context, key core.FactKey, value string) error {
	now := time.Now().UTC()
	query := `INSERT INTO facts (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, now, now); err != nil {
		return fmt.Errorf("failed to set fact: %w", err)
	}
	log.FromCtx(ctx).Debug().Str("key", string(key)).Msg("fact stored")
	return nil
}

func (r *FactRepo) All(ctx context.Context) (map[core.FactKey]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM facts ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	facts := make(map[core.FactKey]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts[core.FactKey(key)] = value
	}
	return facts, rows.Err()
}

func (r *FactRepo) Delete(ctx context.Context, key core.FactKey) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facts WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete fact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *FactRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM facts`); err != nil {
		return fmt.Errorf("failed to clear facts: %w", err)
	}
	return nil
}
