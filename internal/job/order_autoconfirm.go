package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amniuelmohamed/freshconcept/internal/service"
)

// OrderAutoConfirmJob sweeps pending orders whose cutoff passed.
type OrderAutoConfirmJob struct {
	Orders service.OrderService
	Logger *slog.Logger
}

// NewOrderAutoConfirmJob creates the sweep job.
func NewOrderAutoConfirmJob(orders service.OrderService, logger *slog.Logger) *OrderAutoConfirmJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderAutoConfirmJob{Orders: orders, Logger: logger}
}

// Name implements Runnable.
func (j *OrderAutoConfirmJob) Name() string {
	return "order.autoconfirm"
}

// Run implements Runnable.
func (j *OrderAutoConfirmJob) Run(ctx context.Context) error {
	if j == nil || j.Orders == nil {
		return fmt.Errorf("order auto-confirm job dependencies not configured")
	}

	confirmed, err := j.Orders.ConfirmPastCutoff(ctx)
	if err != nil {
		return fmt.Errorf("order auto-confirm job: %w", err)
	}

	if confirmed > 0 {
		j.Logger.Info("auto-confirmed orders past cutoff", "orders_confirmed", confirmed)
	} else {
		j.Logger.Debug("no orders past cutoff")
	}
	return nil
}
