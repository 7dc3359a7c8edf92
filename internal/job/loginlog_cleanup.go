package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/service"
)

// LoginLogCleanupJob prunes login logs past the configured retention.
type LoginLogCleanupJob struct {
	LoginLogs repository.LoginLogRepository
	Settings  service.SettingsService
	Logger    *slog.Logger
}

// NewLoginLogCleanupJob creates the retention job.
func NewLoginLogCleanupJob(loginLogs repository.LoginLogRepository, settings service.SettingsService, logger *slog.Logger) *LoginLogCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginLogCleanupJob{LoginLogs: loginLogs, Settings: settings, Logger: logger}
}

// Name implements Runnable.
func (j *LoginLogCleanupJob) Name() string {
	return "loginlog.cleanup"
}

// Run implements Runnable.
func (j *LoginLogCleanupJob) Run(ctx context.Context) error {
	if j == nil || j.LoginLogs == nil || j.Settings == nil {
		return fmt.Errorf("login log cleanup job dependencies not configured")
	}

	days := j.Settings.LoginLogRetentionDays(ctx)
	removed, err := j.LoginLogs.DeleteByRetentionDays(ctx, days)
	if err != nil {
		return fmt.Errorf("login log cleanup job: %w", err)
	}
	if removed > 0 {
		j.Logger.Info("login logs pruned", "retention_days", days, "logs_removed", removed)
	}
	return nil
}
