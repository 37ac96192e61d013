package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/devagent/internal/ports/secondary"
)

// ConfigRepository implements secondary.ConfigRepository with SQLite.
type ConfigRepository struct {
	db *sql.DB
}

// NewConfigRepository creates a new SQLite config repository.
func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get retrieves a stored entry.
func (r *ConfigRepository) Get(ctx context.Context, key string) (*secondary.ConfigRecord, error) {
	var updatedAt string
	record := &secondary.ConfigRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT key, value, updated_at FROM config_entries WHERE key = ?", key,
	).Scan(&record.Key, &record.Value, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("config key %s %w", key, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", mapError(err))
	}

	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return record, nil
}

// Set inserts or replaces an entry.
func (r *ConfigRepository) Set(ctx context.Context, key, value string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO config_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to set config: %w", mapError(err))
	}
	return nil
}

// List returns every stored entry ordered by key.
func (r *ConfigRepository) List(ctx context.Context) ([]*secondary.ConfigRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT key, value, updated_at FROM config_entries ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list config: %w", mapError(err))
	}
	defer rows.Close()

	var entries []*secondary.ConfigRecord
	for rows.Next() {
		var updatedAt string
		record := &secondary.ConfigRecord{}
		if err := rows.Scan(&record.Key, &record.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", mapError(err))
		}
		if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list config: %w", mapError(err))
	}
	return entries, nil
}

// Delete removes an entry.
func (r *ConfigRepository) Delete(ctx context.Context, key string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM config_entries WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete config: %w", mapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("config key %s %w", key, secondary.ErrNotFound)
	}
	return nil
}

var _ secondary.ConfigRepository = (*ConfigRepository)(nil)
