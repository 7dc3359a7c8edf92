package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

// TokenCleanupJob removes expired refresh tokens.
type TokenCleanupJob struct {
	Tokens repository.TokenRepository
	Logger *slog.Logger
	Now    func() time.Time
}

// NewTokenCleanupJob creates the cleanup job.
func NewTokenCleanupJob(tokens repository.TokenRepository, logger *slog.Logger) *TokenCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenCleanupJob{Tokens: tokens, Logger: logger, Now: time.Now}
}

// Name implements Runnable.
func (j *TokenCleanupJob) Name() string {
	return "token.cleanup"
}

// Run implements Runnable.
func (j *TokenCleanupJob) Run(ctx context.Context) error {
	if j == nil || j.Tokens == nil {
		return fmt.Errorf("token cleanup job dependencies not configured")
	}

	removed, err := j.Tokens.DeleteExpired(ctx, j.Now().Unix())
	if err != nil {
		return fmt.Errorf("token cleanup job: %w", err)
	}
	if removed > 0 {
		j.Logger.Info("expired refresh tokens removed", "tokens_removed", removed)
	}
	return nil
}
