package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type orderRepo struct {
	db *sql.DB
}

const orderColumns = `id,
       reference,
       account_id,
       status,
       delivery_date,
       note,
       total_cents,
       created_at,
       updated_at`

const orderItemColumns = `id,
       order_id,
       product_id,
       name,
       unit,
       price_cents,
       quantity`

// Create inserts the order and its item snapshots in one transaction.
func (r *orderRepo) Create(ctx context.Context, order *repository.Order, items []*repository.OrderItem) (*repository.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const orderStmt = `INSERT INTO orders (
		reference, account_id, status, delivery_date, note, total_cents, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, orderStmt,
		order.Reference,
		order.AccountID,
		string(order.Status),
		optionalString(order.DeliveryDate),
		order.Note,
		order.TotalCents,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	order.ID = orderID

	const itemStmt = `INSERT INTO order_items (order_id, product_id, name, unit, price_cents, quantity)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, item := range items {
		itemResult, err := tx.ExecContext(ctx, itemStmt,
			orderID,
			item.ProductID,
			item.Name,
			item.Unit,
			item.PriceCents,
			item.Quantity,
		)
		if err != nil {
			return nil, err
		}
		itemID, err := itemResult.LastInsertId()
		if err != nil {
			return nil, err
		}
		item.ID = itemID
		item.OrderID = orderID
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id int64) (*repository.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ? LIMIT 1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ItemsByOrderID(ctx context.Context, orderID int64) ([]*repository.OrderItem, error) {
	query := "SELECT " + orderItemColumns + " FROM order_items WHERE order_id = ? ORDER BY id ASC"
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*repository.OrderItem
	for rows.Next() {
		var item repository.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Unit,
			&item.PriceCents,
			&item.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *orderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*repository.Order, error) {
	query, args := buildOrderQuery("SELECT "+orderColumns+" FROM orders", filter, true)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*repository.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Count(ctx context.Context, filter repository.OrderFilter) (int64, error) {
	query, args := buildOrderQuery("SELECT COUNT(*) FROM orders", filter, false)
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListPendingScheduled returns pending orders that carry a delivery date, the
// population the auto-confirmation sweep inspects.
func (r *orderRepo) ListPendingScheduled(ctx context.Context) ([]*repository.Order, error) {
	query := "SELECT " + orderColumns + ` FROM orders
		WHERE status = ? AND delivery_date IS NOT NULL
		ORDER BY delivery_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, string(repository.OrderStatusPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*repository.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatusIf moves an order from one status to another only when the
// stored status still matches. It reports whether the write applied, so
// concurrent transitions lose cleanly instead of clobbering each other.
func (r *orderRepo) UpdateStatusIf(ctx context.Context, id int64, from, to repository.OrderStatus, updatedAt int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		string(to), updatedAt, id, string(from),
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context) ([]repository.OrderStatusCount, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []repository.OrderStatusCount
	for rows.Next() {
		var entry repository.OrderStatusCount
		if err := rows.Scan(&entry.Status, &entry.Count); err != nil {
			return nil, err
		}
		counts = append(counts, entry)
	}
	return counts, rows.Err()
}

func buildOrderQuery(base string, filter repository.OrderFilter, paginate bool) (string, []any) {
	var clauses []string
	var args []any
	if filter.AccountID != nil {
		clauses = append(clauses, "account_id = ?")
		args = append(args, *filter.AccountID)
	}
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.DeliveryFrom != "" {
		clauses = append(clauses, "delivery_date >= ?")
		args = append(args, filter.DeliveryFrom)
	}
	if filter.DeliveryTo != "" {
		clauses = append(clauses, "delivery_date <= ?")
		args = append(args, filter.DeliveryTo)
	}
	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	if paginate {
		query += " ORDER BY created_at DESC, id DESC"
		if filter.Limit > 0 {
			query += " LIMIT ? OFFSET ?"
			args = append(args, filter.Limit, filter.Offset)
		}
	}
	return query, args
}

func scanOrder(scanner rowScanner) (*repository.Order, error) {
	var (
		order        repository.Order
		status       string
		deliveryDate sql.NullString
	)
	if err := scanner.Scan(
		&order.ID,
		&order.Reference,
		&order.AccountID,
		&status,
		&deliveryDate,
		&order.Note,
		&order.TotalCents,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	order.Status = repository.OrderStatus(status)
	order.DeliveryDate = nullableStringPtr(deliveryDate)
	return &order, nil
}
