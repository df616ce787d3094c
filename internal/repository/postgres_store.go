package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
)

// PostgresStore keeps each named collection as one row of a key/value table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payways_collections (
			collection_key VARCHAR(255) PRIMARY KEY,
			value TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM payways_collections WHERE collection_key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", interfaces.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payways_collections (collection_key, value)
		VALUES ($1, $2)
		ON CONFLICT (collection_key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	return err
}

func (r *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payways_collections WHERE collection_key = $1`, key)
	return err
}

func (r *PostgresStore) Close() error {
	return r.db.Close()
}
