package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/autopost/internal/models"
)

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	List(ctx context.Context) ([]*models.Setting, error)
	Set(ctx context.Context, key, value string, updatedBy int64) error
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return value, true, nil
}

func (r *settingsRepository) List(ctx context.Context) ([]*models.Setting, error) {
	query := `
		SELECT id, key, value, category, description, is_sensitive, updated_at
		FROM settings
		ORDER BY category, key
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var settings []*models.Setting
	for rows.Next() {
		var s models.Setting
		err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Category, &s.Description, &s.IsSensitive, &s.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}

func (r *settingsRepository) Set(ctx context.Context, key, value string, updatedBy int64) error {
	query := `
		INSERT INTO settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, key, value, updatedBy)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
