package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type accountRepo struct {
	db *sql.DB
}

const accountColumns = `id,
       uuid,
       email,
       password,
       kind,
       role_id,
       company_name,
       contact_name,
       phone,
       locale,
       webhook_url,
       active,
       last_login_at,
       created_at,
       updated_at`

func (r *accountRepo) FindByID(ctx context.Context, id int64) (*repository.Account, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ? LIMIT 1", id)
	return scanAccountRow(row)
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*repository.Account, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE email = ? COLLATE NOCASE LIMIT 1", strings.TrimSpace(email))
	return scanAccountRow(row)
}

func (r *accountRepo) Create(ctx context.Context, account *repository.Account) (*repository.Account, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	const stmt = `INSERT INTO accounts (
		uuid, email, password, kind, role_id, company_name, contact_name,
		phone, locale, webhook_url, active, last_login_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, stmt,
		account.UUID,
		account.Email,
		account.Password,
		account.Kind,
		account.RoleID,
		account.CompanyName,
		account.ContactName,
		account.Phone,
		account.Locale,
		account.WebhookURL,
		boolToInt(account.Active),
		account.LastLoginAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	account.ID = id
	return account, nil
}

func (r *accountRepo) Update(ctx context.Context, account *repository.Account) error {
	if account == nil {
		return errors.New("account is nil")
	}
	const stmt = `UPDATE accounts SET
		email = ?,
		password = ?,
		role_id = ?,
		company_name = ?,
		contact_name = ?,
		phone = ?,
		locale = ?,
		webhook_url = ?,
		active = ?,
		updated_at = ?
	WHERE id = ?`
	result, err := r.db.ExecContext(ctx, stmt,
		account.Email,
		account.Password,
		account.RoleID,
		account.CompanyName,
		account.ContactName,
		account.Phone,
		account.Locale,
		account.WebhookURL,
		boolToInt(account.Active),
		account.UpdatedAt,
		account.ID,
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

func (r *accountRepo) UpdateLastLogin(ctx context.Context, id int64, at int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE accounts SET last_login_at = ? WHERE id = ?", at, id)
	return err
}

func (r *accountRepo) List(ctx context.Context, filter repository.AccountFilter) ([]*repository.Account, error) {
	query, args := buildAccountQuery("SELECT "+accountColumns+" FROM accounts", filter, true)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*repository.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *accountRepo) Count(ctx context.Context, filter repository.AccountFilter) (int64, error) {
	query, args := buildAccountQuery("SELECT COUNT(*) FROM accounts", filter, false)
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *accountRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
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

func buildAccountQuery(base string, filter repository.AccountFilter, paginate bool) (string, []any) {
	var clauses []string
	var args []any
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.RoleID != nil {
		clauses = append(clauses, "role_id = ?")
		args = append(args, *filter.RoleID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		clauses = append(clauses, "(email LIKE ? OR company_name LIKE ? OR contact_name LIKE ?)")
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	if paginate {
		query += " ORDER BY company_name COLLATE NOCASE ASC, id ASC"
		if filter.Limit > 0 {
			query += " LIMIT ? OFFSET ?"
			args = append(args, filter.Limit, filter.Offset)
		}
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountRow(row *sql.Row) (*repository.Account, error) {
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func scanAccount(scanner rowScanner) (*repository.Account, error) {
	var (
		account    repository.Account
		activeFlag int64
	)
	if err := scanner.Scan(
		&account.ID,
		&account.UUID,
		&account.Email,
		&account.Password,
		&account.Kind,
		&account.RoleID,
		&account.CompanyName,
		&account.ContactName,
		&account.Phone,
		&account.Locale,
		&account.WebhookURL,
		&activeFlag,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	account.Active = activeFlag == 1
	return &account, nil
}
