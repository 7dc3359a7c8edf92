package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

// allowedTransitions maps each status to the states an employee may move it
// to. Pending orders auto-confirm through the sweep, so the manual path also
// allows pending→confirmed for early confirmation. Cancellation is only
// possible while pending; a confirmed order is already in fulfillment.
var allowedTransitions = map[repository.OrderStatus][]repository.OrderStatus{
	repository.OrderStatusPending:   {repository.OrderStatusConfirmed, repository.OrderStatusCancelled},
	repository.OrderStatusConfirmed: {repository.OrderStatusShipped},
	repository.OrderStatusShipped:   {repository.OrderStatusDelivered},
}

// AdminOrderService is the employee-facing order surface.
type AdminOrderService interface {
	List(ctx context.Context, filter repository.OrderFilter) (*OrderPage, error)
	Get(ctx context.Context, orderID int64) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID int64, to repository.OrderStatus) (*OrderView, error)
	StatusCounts(ctx context.Context) ([]repository.OrderStatusCount, error)
}

type adminOrderService struct {
	orders   repository.OrderRepository
	sweeper  OrderService
	accounts repository.AccountRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewAdminOrderService builds the back-office order manager. The sweeper is
// the client order service: admin listings trigger the same opportunistic
// auto-confirmation pass.
func NewAdminOrderService(orders repository.OrderRepository, accounts repository.AccountRepository, sweeper OrderService, logger *slog.Logger) AdminOrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &adminOrderService{
		orders:   orders,
		sweeper:  sweeper,
		accounts: accounts,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *adminOrderService) List(ctx context.Context, filter repository.OrderFilter) (*OrderPage, error) {
	if s.sweeper != nil {
		if _, err := s.sweeper.ConfirmPastCutoff(ctx); err != nil {
			s.logger.Warn("auto-confirm sweep before admin listing failed", "error", err)
		}
	}

	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &OrderPage{Orders: make([]OrderView, 0, len(orders)), Total: total}
	for _, order := range orders {
		page.Orders = append(page.Orders, newOrderView(order))
	}
	return page, nil
}

func (s *adminOrderService) Get(ctx context.Context, orderID int64) (*OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := s.orders.ItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	detail := &OrderDetail{OrderView: newOrderView(order), Items: make([]OrderItemView, 0, len(items))}
	for _, item := range items {
		detail.Items = append(detail.Items, OrderItemView{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Unit:       item.Unit,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
	}
	return detail, nil
}

// UpdateStatus applies a manual transition. The write is conditional on the
// status the employee saw, so a sweep or another employee racing the same
// order surfaces as ErrInvalidTransition instead of a silent overwrite.
func (s *adminOrderService) UpdateStatus(ctx context.Context, orderID int64, to repository.OrderStatus) (*OrderView, error) {
	if !to.Valid() {
		return nil, ErrInvalidInput
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !transitionAllowed(order.Status, to) {
		return nil, ErrInvalidTransition
	}

	applied, err := s.orders.UpdateStatusIf(ctx, order.ID, order.Status, to, s.now().Unix())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrInvalidTransition
	}

	order.Status = to
	order.UpdatedAt = s.now().Unix()
	view := newOrderView(order)
	return &view, nil
}

func (s *adminOrderService) StatusCounts(ctx context.Context) ([]repository.OrderStatusCount, error) {
	return s.orders.CountByStatus(ctx)
}

func transitionAllowed(from, to repository.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
