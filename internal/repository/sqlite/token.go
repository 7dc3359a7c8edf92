package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type tokenRepo struct {
	db *sql.DB
}

const tokenColumns = `id,
       account_id,
       refresh_token,
       refresh_expires_at,
       ip,
       user_agent,
       created_at`

func (r *tokenRepo) Create(ctx context.Context, token *repository.AccessToken) (*repository.AccessToken, error) {
	if token == nil {
		return nil, errors.New("token is nil")
	}
	const stmt = `INSERT INTO access_tokens (
		account_id, refresh_token, refresh_expires_at, ip, user_agent, created_at
	) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, stmt,
		token.AccountID,
		token.RefreshToken,
		token.RefreshExpiresAt,
		token.IP,
		token.UserAgent,
		token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	token.ID = id
	return token, nil
}

func (r *tokenRepo) FindByRefreshToken(ctx context.Context, refreshToken string) (*repository.AccessToken, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+tokenColumns+" FROM access_tokens WHERE refresh_token = ? LIMIT 1", refreshToken)
	var token repository.AccessToken
	if err := row.Scan(
		&token.ID,
		&token.AccountID,
		&token.RefreshToken,
		&token.RefreshExpiresAt,
		&token.IP,
		&token.UserAgent,
		&token.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepo) DeleteByRefreshToken(ctx context.Context, refreshToken string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE refresh_token = ?", refreshToken)
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

func (r *tokenRepo) DeleteByAccount(ctx context.Context, accountID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM access_tokens WHERE account_id = ?", accountID)
	return err
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, nowUnix int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE refresh_expires_at < ?", nowUnix)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
