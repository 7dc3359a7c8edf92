package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type roleRepo struct {
	db *sql.DB
}

const roleColumns = `id,
       name,
       kind,
       permissions,
       delivery_days,
       created_at,
       updated_at`

func (r *roleRepo) FindByID(ctx context.Context, id int64) (*repository.Role, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+roleColumns+" FROM roles WHERE id = ? LIMIT 1", id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) List(ctx context.Context, kind string) ([]*repository.Role, error) {
	query := "SELECT " + roleColumns + " FROM roles"
	var args []any
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY name ASC, id ASC"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*repository.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepo) Create(ctx context.Context, role *repository.Role) (*repository.Role, error) {
	if role == nil {
		return nil, errors.New("role is nil")
	}
	permissions, err := encodeStringSlice(role.Permissions)
	if err != nil {
		return nil, fmt.Errorf("encode role permissions: %w", err)
	}
	deliveryDays, err := encodeStringSlice(role.DeliveryDays)
	if err != nil {
		return nil, fmt.Errorf("encode role delivery days: %w", err)
	}
	const stmt = `INSERT INTO roles (name, kind, permissions, delivery_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, stmt,
		role.Name,
		role.Kind,
		permissions,
		deliveryDays,
		role.CreatedAt,
		role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	role.ID = id
	return role, nil
}

func (r *roleRepo) Update(ctx context.Context, role *repository.Role) error {
	if role == nil {
		return errors.New("role is nil")
	}
	permissions, err := encodeStringSlice(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode role permissions: %w", err)
	}
	deliveryDays, err := encodeStringSlice(role.DeliveryDays)
	if err != nil {
		return fmt.Errorf("encode role delivery days: %w", err)
	}
	const stmt = `UPDATE roles SET
		name = ?,
		kind = ?,
		permissions = ?,
		delivery_days = ?,
		updated_at = ?
	WHERE id = ?`
	result, err := r.db.ExecContext(ctx, stmt,
		role.Name,
		role.Kind,
		permissions,
		deliveryDays,
		role.UpdatedAt,
		role.ID,
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

func (r *roleRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM roles WHERE id = ?", id)
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

func scanRole(scanner rowScanner) (*repository.Role, error) {
	var (
		role         repository.Role
		permissions  sql.NullString
		deliveryDays sql.NullString
	)
	if err := scanner.Scan(
		&role.ID,
		&role.Name,
		&role.Kind,
		&permissions,
		&deliveryDays,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, err
	}
	decodedPermissions, err := decodeJSONSlice(permissions.String)
	if err != nil {
		return nil, fmt.Errorf("decode role permissions: %w", err)
	}
	decodedDays, err := decodeJSONSlice(deliveryDays.String)
	if err != nil {
		return nil, fmt.Errorf("decode role delivery days: %w", err)
	}
	role.Permissions = decodedPermissions
	role.DeliveryDays = decodedDays
	return &role, nil
}
