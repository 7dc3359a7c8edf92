package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type loginLogRepo struct {
	db *sql.DB
}

func (r *loginLogRepo) Create(ctx context.Context, log *repository.LoginLog) error {
	if log == nil {
		return errors.New("login log is nil")
	}
	const stmt = `INSERT INTO login_logs (
		account_id, email, ip, user_agent, success, reason, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`
	var accountID any
	if log.AccountID != nil {
		accountID = *log.AccountID
	}
	_, err := r.db.ExecContext(ctx, stmt,
		accountID,
		log.Email,
		log.IP,
		log.UserAgent,
		boolToInt(log.Success),
		log.Reason,
		log.CreatedAt,
	)
	return err
}

func (r *loginLogRepo) DeleteByRetentionDays(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	result, err := r.db.ExecContext(ctx, "DELETE FROM login_logs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
