package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type settingRepo struct {
	db *sql.DB
}

func (r *settingRepo) Get(ctx context.Context, key string) (*repository.Setting, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT key, value, category, updated_at FROM settings WHERE key = ? LIMIT 1", key)
	var setting repository.Setting
	if err := row.Scan(&setting.Key, &setting.Value, &setting.Category, &setting.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) Upsert(ctx context.Context, setting *repository.Setting) error {
	if setting == nil {
		return errors.New("setting is nil")
	}
	const stmt = `INSERT INTO settings (key, value, category, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			category = excluded.category,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, stmt, setting.Key, setting.Value, setting.Category, setting.UpdatedAt)
	return err
}

func (r *settingRepo) List(ctx context.Context) ([]repository.Setting, error) {
	return r.query(ctx, "SELECT key, value, category, updated_at FROM settings ORDER BY category ASC, key ASC")
}

func (r *settingRepo) ListByCategory(ctx context.Context, category string) ([]repository.Setting, error) {
	return r.query(ctx,
		"SELECT key, value, category, updated_at FROM settings WHERE category = ? ORDER BY key ASC", category)
}

func (r *settingRepo) query(ctx context.Context, query string, args ...any) ([]repository.Setting, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []repository.Setting
	for rows.Next() {
		var setting repository.Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Category, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}
