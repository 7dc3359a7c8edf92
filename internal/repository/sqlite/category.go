package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type categoryRepo struct {
	db *sql.DB
}

const categoryColumns = `id,
       name,
       sort,
       visible,
       created_at,
       updated_at`

func (r *categoryRepo) List(ctx context.Context, visibleOnly bool) ([]*repository.Category, error) {
	query := "SELECT " + categoryColumns + " FROM categories"
	if visibleOnly {
		query += " WHERE visible = 1"
	}
	query += " ORDER BY sort ASC, id ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*repository.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) FindByID(ctx context.Context, id int64) (*repository.Category, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ? LIMIT 1", id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *repository.Category) (*repository.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	const stmt = `INSERT INTO categories (name, sort, visible, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, stmt,
		category.Name,
		category.Sort,
		boolToInt(category.Visible),
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	category.ID = id
	return category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *repository.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	const stmt = `UPDATE categories SET
		name = ?,
		sort = ?,
		visible = ?,
		updated_at = ?
	WHERE id = ?`
	result, err := r.db.ExecContext(ctx, stmt,
		category.Name,
		category.Sort,
		boolToInt(category.Visible),
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Sort rewrites the sort column to match the order of ids.
func (r *categoryRepo) Sort(ctx context.Context, ids []int64, updatedAt int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for position, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE categories SET sort = ?, updated_at = ? WHERE id = ?",
			position+1, updatedAt, id,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanCategory(scanner rowScanner) (*repository.Category, error) {
	var (
		category    repository.Category
		visibleFlag int64
	)
	if err := scanner.Scan(
		&category.ID,
		&category.Name,
		&category.Sort,
		&visibleFlag,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	category.Visible = visibleFlag == 1
	return &category, nil
}
