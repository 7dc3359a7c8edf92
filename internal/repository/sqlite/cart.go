package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type cartRepo struct {
	db *sql.DB
}

func (r *cartRepo) ListByAccount(ctx context.Context, accountID int64) ([]*repository.CartItem, error) {
	const query = `SELECT account_id, product_id, quantity, updated_at
		FROM cart_items WHERE account_id = ? ORDER BY updated_at ASC, product_id ASC`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*repository.CartItem
	for rows.Next() {
		var item repository.CartItem
		if err := rows.Scan(&item.AccountID, &item.ProductID, &item.Quantity, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *cartRepo) Upsert(ctx context.Context, item *repository.CartItem) error {
	if item == nil {
		return errors.New("cart item is nil")
	}
	const stmt = `INSERT INTO cart_items (account_id, product_id, quantity, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id, product_id) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, stmt, item.AccountID, item.ProductID, item.Quantity, item.UpdatedAt)
	return err
}

func (r *cartRepo) Remove(ctx context.Context, accountID, productID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE account_id = ? AND product_id = ?", accountID, productID)
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

func (r *cartRepo) Clear(ctx context.Context, accountID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE account_id = ?", accountID)
	return err
}
