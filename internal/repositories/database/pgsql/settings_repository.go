package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
)

type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := r.Pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1;`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}

func (r *PgxSettingsRepository) ListSettings(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := r.Pool.Query(ctx, `SELECT key, value FROM settings;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]json.RawMessage{}
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings[key] = value
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", rows.Err())
	}
	return settings, nil
}

func (r *PgxSettingsRepository) UpsertSetting(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;
	`, key, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", key, err)
	}
	return nil
}
