package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

func newAdminOrderService(repo *stubOrderRepo, now time.Time) *adminOrderService {
	svc := NewAdminOrderService(repo, nil, nil, discardLogger()).(*adminOrderService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	now := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)

	steps := []struct {
		from repository.OrderStatus
		to   repository.OrderStatus
	}{
		{repository.OrderStatusPending, repository.OrderStatusConfirmed},
		{repository.OrderStatusPending, repository.OrderStatusCancelled},
		{repository.OrderStatusConfirmed, repository.OrderStatusShipped},
		{repository.OrderStatusShipped, repository.OrderStatusDelivered},
	}
	for _, step := range steps {
		repo := newStubOrderRepo()
		order := repo.add(&repository.Order{AccountID: 1, Status: step.from})
		svc := newAdminOrderService(repo, now)

		view, err := svc.UpdateStatus(context.Background(), order.ID, step.to)
		require.NoError(t, err, "%s -> %s", step.from, step.to)
		assert.Equal(t, string(step.to), view.Status)
	}
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	now := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)

	rejected := []struct {
		from repository.OrderStatus
		to   repository.OrderStatus
	}{
		{repository.OrderStatusPending, repository.OrderStatusShipped},
		{repository.OrderStatusPending, repository.OrderStatusDelivered},
		{repository.OrderStatusConfirmed, repository.OrderStatusCancelled},
		{repository.OrderStatusShipped, repository.OrderStatusCancelled},
		{repository.OrderStatusDelivered, repository.OrderStatusShipped},
		{repository.OrderStatusCancelled, repository.OrderStatusConfirmed},
	}
	for _, step := range rejected {
		repo := newStubOrderRepo()
		order := repo.add(&repository.Order{AccountID: 1, Status: step.from})
		svc := newAdminOrderService(repo, now)

		_, err := svc.UpdateStatus(context.Background(), order.ID, step.to)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", step.from, step.to)
		assert.Equal(t, step.from, repo.orders[order.ID].Status)
	}
}

func TestUpdateStatusUnknownStatusRejected(t *testing.T) {
	repo := newStubOrderRepo()
	order := repo.add(&repository.Order{AccountID: 1, Status: repository.OrderStatusPending})
	svc := newAdminOrderService(repo, time.Now())

	_, err := svc.UpdateStatus(context.Background(), order.ID, repository.OrderStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatusLosingRaceSurfaces(t *testing.T) {
	repo := newStubOrderRepo()
	order := repo.add(&repository.Order{AccountID: 1, Status: repository.OrderStatusPending})
	repo.casDeny[order.ID] = true
	svc := newAdminOrderService(repo, time.Now())

	_, err := svc.UpdateStatus(context.Background(), order.ID, repository.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	svc := newAdminOrderService(newStubOrderRepo(), time.Now())

	_, err := svc.UpdateStatus(context.Background(), 42, repository.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}
