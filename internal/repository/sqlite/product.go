package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type productRepo struct {
	db *sql.DB
}

const productColumns = `id,
       category_id,
       sku,
       name,
       description,
       unit,
       price_cents,
       in_stock,
       visible,
       sort,
       created_at,
       updated_at`

func (r *productRepo) Search(ctx context.Context, filter repository.ProductFilter) ([]*repository.Product, error) {
	query, args := buildProductQuery("SELECT "+productColumns+" FROM products", filter, true)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*repository.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) Count(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	query, args := buildProductQuery("SELECT COUNT(*) FROM products", filter, false)
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (*repository.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ? LIMIT 1", id)
	return scanProductRow(row)
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*repository.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE sku = ? COLLATE NOCASE LIMIT 1", strings.TrimSpace(sku))
	return scanProductRow(row)
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []int64) ([]*repository.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := "SELECT " + productColumns + " FROM products WHERE id IN (" + strings.Join(placeholders, ", ") + ")"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*repository.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) Create(ctx context.Context, product *repository.Product) (*repository.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	const stmt = `INSERT INTO products (
		category_id, sku, name, description, unit, price_cents,
		in_stock, visible, sort, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, stmt,
		product.CategoryID,
		product.SKU,
		product.Name,
		product.Description,
		product.Unit,
		product.PriceCents,
		boolToInt(product.InStock),
		boolToInt(product.Visible),
		product.Sort,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	product.ID = id
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *repository.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	const stmt = `UPDATE products SET
		category_id = ?,
		sku = ?,
		name = ?,
		description = ?,
		unit = ?,
		price_cents = ?,
		in_stock = ?,
		visible = ?,
		sort = ?,
		updated_at = ?
	WHERE id = ?`
	result, err := r.db.ExecContext(ctx, stmt,
		product.CategoryID,
		product.SKU,
		product.Name,
		product.Description,
		product.Unit,
		product.PriceCents,
		boolToInt(product.InStock),
		boolToInt(product.Visible),
		product.Sort,
		product.UpdatedAt,
		product.ID,
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

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
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

func buildProductQuery(base string, filter repository.ProductFilter, paginate bool) (string, []any) {
	var clauses []string
	var args []any
	if filter.CategoryID != nil {
		clauses = append(clauses, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.VisibleOnly {
		clauses = append(clauses, "visible = 1")
	}
	if filter.InStockOnly {
		clauses = append(clauses, "in_stock = 1")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		clauses = append(clauses, "(name LIKE ? OR sku LIKE ?)")
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	if paginate {
		query += " ORDER BY sort ASC, name COLLATE NOCASE ASC, id ASC"
		if filter.Limit > 0 {
			query += " LIMIT ? OFFSET ?"
			args = append(args, filter.Limit, filter.Offset)
		}
	}
	return query, args
}

func scanProductRow(row *sql.Row) (*repository.Product, error) {
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func scanProduct(scanner rowScanner) (*repository.Product, error) {
	var (
		product     repository.Product
		inStockFlag int64
		visibleFlag int64
	)
	if err := scanner.Scan(
		&product.ID,
		&product.CategoryID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.Unit,
		&product.PriceCents,
		&inStockFlag,
		&visibleFlag,
		&product.Sort,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	product.InStock = inStockFlag == 1
	product.Visible = visibleFlag == 1
	return &product, nil
}
