package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amniuelmohamed/freshconcept/internal/async"
	"github.com/amniuelmohamed/freshconcept/internal/notifier"
)

// WebhookDispatchJob drains the event queue and delivers webhooks. Requests
// that fail with a retryable error go back to the front of the queue for the
// next run; permanently rejected events are dropped.
type WebhookDispatchJob struct {
	Queue    *async.EventQueue
	Notifier notifier.Service
	Logger   *slog.Logger
}

// NewWebhookDispatchJob creates the dispatch job.
func NewWebhookDispatchJob(queue *async.EventQueue, svc notifier.Service, logger *slog.Logger) *WebhookDispatchJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookDispatchJob{Queue: queue, Notifier: svc, Logger: logger}
}

// Name implements Runnable.
func (j *WebhookDispatchJob) Name() string {
	return "webhook.dispatch"
}

// Run implements Runnable.
func (j *WebhookDispatchJob) Run(ctx context.Context) error {
	if j == nil || j.Queue == nil || j.Notifier == nil {
		return fmt.Errorf("webhook dispatch job dependencies not configured")
	}

	pending := j.Queue.Drain()
	if len(pending) == 0 {
		return nil
	}

	delivered := 0
	for _, req := range pending {
		if err := ctx.Err(); err != nil {
			j.Queue.Requeue(req)
			continue
		}
		if err := j.Notifier.SendWebhook(ctx, req); err != nil {
			if errors.Is(err, notifier.ErrDeliveryFailed) {
				j.Logger.Warn("webhook dropped after retries",
					"url", req.URL, "kind", req.Event.Kind, "reference", req.Event.Reference)
				continue
			}
			j.Queue.Requeue(req)
			continue
		}
		delivered++
	}
	if delivered > 0 {
		j.Logger.Debug("webhooks delivered", "count", delivered)
	}
	return nil
}
