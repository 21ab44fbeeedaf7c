package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/card-builder/internal/database"
)

// postgresSlotRepo stores slots as rows of the kv_slots table
type postgresSlotRepo struct {
	db *database.DB
}

// NewPostgresSlotRepo creates a slot repository backed by PostgreSQL
func NewPostgresSlotRepo(db *database.DB) SlotRepository {
	return &postgresSlotRepo{db: db}
}

// Get reads a slot value
func (r *postgresSlotRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes a slot value, replacing any previous one
func (r *postgresSlotRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}
