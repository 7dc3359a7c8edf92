package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/amniuelmohamed/freshconcept/internal/migrations"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

var testDBSeq atomic.Int64

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:ordertest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	// Shared-cache in-memory databases vanish when the last connection
	// closes; a single connection keeps the schema alive for the test.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(db))
	return NewStore(db)
}

func seedOrder(t *testing.T, store *Store, status repository.OrderStatus, deliveryDate *string) *repository.Order {
	t.Helper()

	now := time.Now().Unix()
	order, err := store.Orders().Create(context.Background(), &repository.Order{
		Reference:    fmt.Sprintf("ref-%d", testDBSeq.Add(1)),
		AccountID:    1,
		Status:       status,
		DeliveryDate: deliveryDate,
		TotalCents:   1250,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, []*repository.OrderItem{
		{ProductID: 1, Name: "Tomates grappe", Unit: "kg", PriceCents: 250, Quantity: 5},
	})
	require.NoError(t, err)
	return order
}

func strPtr(s string) *string { return &s }

func TestOrderRepoCreateSnapshotsItems(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, repository.OrderStatusPending, strPtr("2026-09-07"))

	require.NotZero(t, order.ID)

	items, err := store.Orders().ItemsByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, order.ID, items[0].OrderID)
	require.Equal(t, "Tomates grappe", items[0].Name)
	require.EqualValues(t, 5, items[0].Quantity)
}

func TestOrderRepoUpdateStatusIfAppliesOnce(t *testing.T) {
	store := newTestStore(t)
	order := seedOrder(t, store, repository.OrderStatusPending, strPtr("2026-09-07"))

	ctx := context.Background()
	updatedAt := time.Now().Unix() + 60

	applied, err := store.Orders().UpdateStatusIf(ctx, order.ID,
		repository.OrderStatusPending, repository.OrderStatusConfirmed, updatedAt)
	require.NoError(t, err)
	require.True(t, applied)

	// A second identical transition must lose: the stored status moved on.
	applied, err = store.Orders().UpdateStatusIf(ctx, order.ID,
		repository.OrderStatusPending, repository.OrderStatusConfirmed, updatedAt)
	require.NoError(t, err)
	require.False(t, applied)

	stored, err := store.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, repository.OrderStatusConfirmed, stored.Status)
	require.Equal(t, updatedAt, stored.UpdatedAt)
}

func TestOrderRepoUpdateStatusIfUnknownOrder(t *testing.T) {
	store := newTestStore(t)

	applied, err := store.Orders().UpdateStatusIf(context.Background(), 9999,
		repository.OrderStatusPending, repository.OrderStatusConfirmed, time.Now().Unix())
	require.NoError(t, err)
	require.False(t, applied)
}

func TestOrderRepoListPendingScheduled(t *testing.T) {
	store := newTestStore(t)

	scheduled := seedOrder(t, store, repository.OrderStatusPending, strPtr("2026-09-07"))
	seedOrder(t, store, repository.OrderStatusPending, nil)
	seedOrder(t, store, repository.OrderStatusConfirmed, strPtr("2026-09-08"))

	orders, err := store.Orders().ListPendingScheduled(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, scheduled.ID, orders[0].ID)
}

func TestOrderRepoCountByStatus(t *testing.T) {
	store := newTestStore(t)

	seedOrder(t, store, repository.OrderStatusPending, strPtr("2026-09-07"))
	seedOrder(t, store, repository.OrderStatusPending, nil)
	seedOrder(t, store, repository.OrderStatusDelivered, strPtr("2026-08-17"))

	counts, err := store.Orders().CountByStatus(context.Background())
	require.NoError(t, err)

	byStatus := map[repository.OrderStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	require.EqualValues(t, 2, byStatus[repository.OrderStatusPending])
	require.EqualValues(t, 1, byStatus[repository.OrderStatusDelivered])
}
