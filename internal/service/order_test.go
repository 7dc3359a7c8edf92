package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/schedule"
)

type stubOrderRepo struct {
	orders     map[int64]*repository.Order
	items      map[int64][]*repository.OrderItem
	nextID     int64
	updateErrs map[int64]error
	casDeny    map[int64]bool
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:     make(map[int64]*repository.Order),
		items:      make(map[int64][]*repository.OrderItem),
		updateErrs: make(map[int64]error),
		casDeny:    make(map[int64]bool),
	}
}

func (r *stubOrderRepo) add(order *repository.Order) *repository.Order {
	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = order
	return order
}

func (r *stubOrderRepo) Create(_ context.Context, order *repository.Order, items []*repository.OrderItem) (*repository.Order, error) {
	r.add(order)
	r.items[order.ID] = items
	return order, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id int64) (*repository.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *stubOrderRepo) ItemsByOrderID(_ context.Context, orderID int64) ([]*repository.OrderItem, error) {
	return r.items[orderID], nil
}

func (r *stubOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*repository.Order, error) {
	var out []*repository.Order
	for _, order := range r.orders {
		if filter.AccountID != nil && order.AccountID != *filter.AccountID {
			continue
		}
		clone := *order
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubOrderRepo) Count(_ context.Context, filter repository.OrderFilter) (int64, error) {
	orders, _ := r.List(context.Background(), filter)
	return int64(len(orders)), nil
}

func (r *stubOrderRepo) ListPendingScheduled(_ context.Context) ([]*repository.Order, error) {
	var out []*repository.Order
	for _, order := range r.orders {
		if order.Status == repository.OrderStatusPending && order.DeliveryDate != nil {
			clone := *order
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatusIf(_ context.Context, id int64, from, to repository.OrderStatus, updatedAt int64) (bool, error) {
	if err := r.updateErrs[id]; err != nil {
		return false, err
	}
	if r.casDeny[id] {
		return false, nil
	}
	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = updatedAt
	return true, nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context) ([]repository.OrderStatusCount, error) {
	counts := make(map[repository.OrderStatus]int64)
	for _, order := range r.orders {
		counts[order.Status]++
	}
	var out []repository.OrderStatusCount
	for status, count := range counts {
		out = append(out, repository.OrderStatusCount{Status: status, Count: count})
	}
	return out, nil
}

type stubSettings struct {
	policy schedule.CutoffPolicy
	err    error
}

func (s *stubSettings) CutoffPolicy(context.Context) (schedule.CutoffPolicy, error) {
	return s.policy, s.err
}

func (s *stubSettings) UpdateCutoffPolicy(context.Context, schedule.CutoffPolicy) error { return nil }

func (s *stubSettings) List(context.Context) ([]repository.Setting, error) { return nil, nil }

func (s *stubSettings) Update(context.Context, string, string, string) error { return nil }

func (s *stubSettings) LoginLogRetentionDays(context.Context) int { return 90 }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSweepService(repo *stubOrderRepo, policy schedule.CutoffPolicy, now time.Time) *orderService {
	svc := NewOrderService(repo, nil, nil, nil, &stubSettings{policy: policy}, nil, discardLogger()).(*orderService)
	svc.now = func() time.Time { return now }
	return svc
}

func pendingOrder(repo *stubOrderRepo, deliveryDate string) *repository.Order {
	date := deliveryDate
	return repo.add(&repository.Order{
		Reference:    deliveryDate,
		AccountID:    1,
		Status:       repository.OrderStatusPending,
		DeliveryDate: &date,
	})
}

func TestConfirmPastCutoffPromotesExpiredOrders(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}

	// Cutoffs: Jan 9 14:00 for the 10th, Jan 11 14:00 for the 12th.
	past := pendingOrder(repo, "2024-01-10")
	future := pendingOrder(repo, "2024-01-12")

	now := time.Date(2024, 1, 9, 15, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	confirmed, err := svc.ConfirmPastCutoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, repository.OrderStatusConfirmed, repo.orders[past.ID].Status)
	assert.Equal(t, repository.OrderStatusPending, repo.orders[future.ID].Status)
}

func TestConfirmPastCutoffExactDeadlineCounts(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	order := pendingOrder(repo, "2024-01-10")

	// Exactly at the cutoff instant the window is closed.
	now := time.Date(2024, 1, 9, 14, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	confirmed, err := svc.ConfirmPastCutoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, repository.OrderStatusConfirmed, repo.orders[order.ID].Status)
}

func TestConfirmPastCutoffIsIdempotent(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	pendingOrder(repo, "2024-01-10")

	now := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	first, err := svc.ConfirmPastCutoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := svc.ConfirmPastCutoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestConfirmPastCutoffSkipsFailuresAndContinues(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}

	broken := pendingOrder(repo, "2024-01-10")
	repo.updateErrs[broken.ID] = errors.New("disk full")
	malformed := pendingOrder(repo, "not-a-date")
	healthy := pendingOrder(repo, "2024-01-11")

	now := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	confirmed, err := svc.ConfirmPastCutoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, repository.OrderStatusPending, repo.orders[broken.ID].Status)
	assert.Equal(t, repository.OrderStatusPending, repo.orders[malformed.ID].Status)
	assert.Equal(t, repository.OrderStatusConfirmed, repo.orders[healthy.ID].Status)
}

func TestConfirmPastCutoffLosingRaceNotCounted(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	order := pendingOrder(repo, "2024-01-10")

	now := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	// Another writer beats the sweep to the conditional update.
	repo.casDeny[order.ID] = true

	confirmed, err := svc.ConfirmPastCutoff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, confirmed)
	assert.Equal(t, repository.OrderStatusPending, repo.orders[order.ID].Status)
}

func TestConfirmPastCutoffPropagatesPolicyError(t *testing.T) {
	repo := newStubOrderRepo()
	pendingOrder(repo, "2024-01-10")

	svc := NewOrderService(repo, nil, nil, nil, &stubSettings{err: ErrInvalidCutoffPolicy}, nil, discardLogger())

	_, err := svc.ConfirmPastCutoff(context.Background())
	assert.ErrorIs(t, err, ErrInvalidCutoffPolicy)
}

func TestCancelBeforeDeadline(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	order := pendingOrder(repo, "2024-01-10")

	now := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	identity := &Identity{AccountID: 1}
	require.NoError(t, svc.Cancel(context.Background(), identity, order.ID))
	assert.Equal(t, repository.OrderStatusCancelled, repo.orders[order.ID].Status)
}

func TestCancelAfterDeadlineLocked(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	order := pendingOrder(repo, "2024-01-10")

	now := time.Date(2024, 1, 9, 14, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	identity := &Identity{AccountID: 1}
	err := svc.Cancel(context.Background(), identity, order.ID)
	assert.ErrorIs(t, err, ErrOrderLocked)
	assert.Equal(t, repository.OrderStatusPending, repo.orders[order.ID].Status)
}

func TestCancelForeignOrderHidden(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	order := pendingOrder(repo, "2024-01-10")

	now := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	identity := &Identity{AccountID: 2}
	err := svc.Cancel(context.Background(), identity, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNextDeliveryUsesRoleDays(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}

	// Wednesday morning before the cutoff for Thursday.
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	svc := newSweepService(repo, policy, now)

	identity := &Identity{AccountID: 1, DeliveryDays: []string{"monday", "thursday"}}
	preview, err := svc.NextDelivery(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", preview.DeliveryDate)
	assert.Equal(t, time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC).Unix(), preview.CutoffAt)
}

func TestNextDeliveryNoDaysUnavailable(t *testing.T) {
	repo := newStubOrderRepo()
	policy := schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}
	svc := newSweepService(repo, policy, time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))

	identity := &Identity{AccountID: 1}
	_, err := svc.NextDelivery(context.Background(), identity)
	assert.ErrorIs(t, err, ErrSchedulingUnavailable)
}
