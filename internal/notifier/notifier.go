package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// OrderEvent is the payload posted to a client's webhook when one of their
// orders changes state.
type OrderEvent struct {
	Kind         string `json:"kind"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
	DeliveryDate string `json:"delivery_date,omitempty"`
	OccurredAt   int64  `json:"occurred_at"`
}

// WebhookRequest targets one client endpoint with one event.
type WebhookRequest struct {
	URL   string
	Event OrderEvent
}

// Service delivers order events to external systems.
type Service interface {
	SendWebhook(ctx context.Context, req WebhookRequest) error
}

// ErrDeliveryFailed reports that all delivery attempts were exhausted.
var ErrDeliveryFailed = errors.New("notifier: delivery failed")

// WebhookService posts JSON events over HTTP with exponential backoff.
type WebhookService struct {
	client     *http.Client
	logger     *slog.Logger
	maxRetries uint64
}

// WebhookOptions configure the HTTP webhook sender.
type WebhookOptions struct {
	Timeout    time.Duration
	MaxRetries uint64
	Logger     *slog.Logger
}

// NewWebhookService builds the HTTP-backed notifier.
func NewWebhookService(opts WebhookOptions) *WebhookService {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WebhookService{
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// SendWebhook posts the event, retrying transient failures with backoff.
func (s *WebhookService) SendWebhook(ctx context.Context, req WebhookRequest) error {
	if s == nil {
		return fmt.Errorf("webhook service not initialized")
	}
	if strings.TrimSpace(req.URL) == "" {
		return fmt.Errorf("webhook url is required")
	}
	payload, err := json.Marshal(req.Event)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	operation := func() error {
		return s.post(ctx, req.URL, payload)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.WarnContext(ctx, "webhook delivery failed",
			"url", req.URL, "kind", req.Event.Kind, "reference", req.Event.Reference, "error", err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (s *WebhookService) post(ctx context.Context, url string, payload []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return backoff.Permanent(fmt.Errorf("webhook endpoint rejected event: %s", resp.Status))
	default:
		return fmt.Errorf("webhook endpoint returned %s", resp.Status)
	}
}

// LoggerService records delivery intent without calling out, for tests and
// local development.
type LoggerService struct {
	logger *slog.Logger
}

// NewLoggerService creates a log-only notifier.
func NewLoggerService(logger *slog.Logger) *LoggerService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoggerService{logger: logger}
}

// SendWebhook logs the event instead of delivering it.
func (s *LoggerService) SendWebhook(ctx context.Context, req WebhookRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return fmt.Errorf("webhook url is required")
	}
	s.logger.InfoContext(ctx, "webhook event",
		"url", req.URL, "kind", req.Event.Kind, "reference", req.Event.Reference, "status", req.Event.Status)
	return nil
}
