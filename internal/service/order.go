package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amniuelmohamed/freshconcept/internal/async"
	"github.com/amniuelmohamed/freshconcept/internal/notifier"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/schedule"
)

const deliveryDateLayout = "2006-01-02"

// OrderView is the order summary returned on listings and after checkout.
type OrderView struct {
	ID           int64  `json:"id"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
	DeliveryDate string `json:"delivery_date,omitempty"`
	Note         string `json:"note,omitempty"`
	TotalCents   int64  `json:"total_cents"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// OrderItemView is one snapshotted line of an order.
type OrderItemView struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int64  `json:"quantity"`
}

// OrderDetail joins the order with its items.
type OrderDetail struct {
	OrderView
	Items []OrderItemView `json:"items"`
}

// DeliveryPreview tells a client when their next order would arrive and how
// long they have to place it.
type DeliveryPreview struct {
	DeliveryDate string `json:"delivery_date"`
	CutoffAt     int64  `json:"cutoff_at"`
}

// OrderPage is one page of order summaries.
type OrderPage struct {
	Orders []OrderView `json:"orders"`
	Total  int64       `json:"total"`
}

// OrderService drives the client ordering flow: delivery scheduling,
// checkout, listing, and cancellation, plus the auto-confirmation sweep.
type OrderService interface {
	NextDelivery(ctx context.Context, identity *Identity) (*DeliveryPreview, error)
	Checkout(ctx context.Context, identity *Identity, note string) (*OrderDetail, error)
	List(ctx context.Context, accountID int64, filter repository.OrderFilter) (*OrderPage, error)
	Get(ctx context.Context, accountID, orderID int64) (*OrderDetail, error)
	Cancel(ctx context.Context, identity *Identity, orderID int64) error

	// ConfirmPastCutoff promotes every pending scheduled order whose cutoff
	// deadline has passed to confirmed, returning how many it promoted.
	ConfirmPastCutoff(ctx context.Context) (int, error)
}

type orderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	accounts repository.AccountRepository
	settings SettingsService
	events   *async.EventQueue
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderService wires the ordering flow.
func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	accounts repository.AccountRepository,
	settings SettingsService,
	events *async.EventQueue,
	logger *slog.Logger,
) OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		orders:   orders,
		carts:    carts,
		products: products,
		accounts: accounts,
		settings: settings,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *orderService) NextDelivery(ctx context.Context, identity *Identity) (*DeliveryPreview, error) {
	deliveryDate, policy, err := s.scheduleFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	deadline, err := schedule.Deadline(deliveryDate, policy)
	if err != nil {
		return nil, err
	}
	return &DeliveryPreview{
		DeliveryDate: deliveryDate.Format(deliveryDateLayout),
		CutoffAt:     deadline.Unix(),
	}, nil
}

// Checkout turns the client's cart into a pending order scheduled for the
// next reachable delivery date. Product lines are snapshotted so later
// catalog edits leave placed orders untouched.
func (s *orderService) Checkout(ctx context.Context, identity *Identity, note string) (*OrderDetail, error) {
	deliveryDate, _, err := s.scheduleFor(ctx, identity)
	if err != nil {
		return nil, err
	}

	cartItems, err := s.carts.ListByAccount(ctx, identity.AccountID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]int64, 0, len(cartItems))
	for _, item := range cartItems {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*repository.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	var (
		items []*repository.OrderItem
		total int64
	)
	for _, item := range cartItems {
		product, ok := byID[item.ProductID]
		if !ok || !product.Visible || !product.InStock {
			return nil, ErrProductUnavailable
		}
		items = append(items, &repository.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Unit:       product.Unit,
			PriceCents: product.PriceCents,
			Quantity:   item.Quantity,
		})
		total += product.PriceCents * item.Quantity
	}

	now := s.now().Unix()
	dateValue := deliveryDate.Format(deliveryDateLayout)
	order := &repository.Order{
		Reference:    uuid.NewString(),
		AccountID:    identity.AccountID,
		Status:       repository.OrderStatusPending,
		DeliveryDate: &dateValue,
		Note:         note,
		TotalCents:   total,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.orders.Create(ctx, order, items); err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, identity.AccountID); err != nil {
		s.logger.Warn("cart clear after checkout failed", "account_id", identity.AccountID, "error", err)
	}

	s.publish(identity.WebhookURL, "order.placed", order)
	return s.detail(ctx, order)
}

// List returns the client's orders. The sweep runs opportunistically first
// so a listing never shows a pending order whose cutoff already passed.
func (s *orderService) List(ctx context.Context, accountID int64, filter repository.OrderFilter) (*OrderPage, error) {
	if _, err := s.ConfirmPastCutoff(ctx); err != nil {
		s.logger.Warn("auto-confirm sweep before listing failed", "error", err)
	}

	filter.AccountID = &accountID
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

func (s *orderService) Get(ctx context.Context, accountID, orderID int64) (*OrderDetail, error) {
	if _, err := s.ConfirmPastCutoff(ctx); err != nil {
		s.logger.Warn("auto-confirm sweep before fetch failed", "error", err)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.AccountID != accountID {
		return nil, ErrNotFound
	}
	return s.detail(ctx, order)
}

// Cancel withdraws a pending order while its cutoff deadline is still open.
// The conditional status write means a concurrent sweep confirming the same
// order wins or loses atomically, never both.
func (s *orderService) Cancel(ctx context.Context, identity *Identity, orderID int64) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if order.AccountID != identity.AccountID {
		return ErrNotFound
	}
	if order.Status != repository.OrderStatusPending {
		return ErrOrderLocked
	}

	if order.DeliveryDate != nil {
		policy, err := s.settings.CutoffPolicy(ctx)
		if err != nil {
			return err
		}
		deadline, err := s.orderDeadline(*order.DeliveryDate, policy)
		if err != nil {
			return err
		}
		if !s.now().Before(deadline) {
			return ErrOrderLocked
		}
	}

	applied, err := s.orders.UpdateStatusIf(ctx, order.ID,
		repository.OrderStatusPending, repository.OrderStatusCancelled, s.now().Unix())
	if err != nil {
		return err
	}
	if !applied {
		return ErrOrderLocked
	}

	order.Status = repository.OrderStatusCancelled
	s.publish(identity.WebhookURL, "order.cancelled", order)
	return nil
}

func (s *orderService) ConfirmPastCutoff(ctx context.Context) (int, error) {
	policy, err := s.settings.CutoffPolicy(ctx)
	if err != nil {
		return 0, err
	}
	pending, err := s.orders.ListPendingScheduled(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	confirmed := 0
	for _, order := range pending {
		if order.DeliveryDate == nil {
			continue
		}
		deadline, err := s.orderDeadline(*order.DeliveryDate, policy)
		if err != nil {
			s.logger.Warn("auto-confirm skipped order",
				"order_id", order.ID, "delivery_date", *order.DeliveryDate, "error", err)
			continue
		}
		// The window closes at the cutoff instant itself: now == deadline
		// confirms, matching the strict now < cutoff rule at checkout.
		if now.Before(deadline) {
			continue
		}
		applied, err := s.orders.UpdateStatusIf(ctx, order.ID,
			repository.OrderStatusPending, repository.OrderStatusConfirmed, now.Unix())
		if err != nil {
			s.logger.Warn("auto-confirm update failed", "order_id", order.ID, "error", err)
			continue
		}
		if !applied {
			// Someone else moved the order first; nothing to do.
			continue
		}
		confirmed++
		order.Status = repository.OrderStatusConfirmed
		s.notifyAccount(ctx, order, "order.confirmed")
	}
	return confirmed, nil
}

func (s *orderService) scheduleFor(ctx context.Context, identity *Identity) (time.Time, schedule.CutoffPolicy, error) {
	policy, err := s.settings.CutoffPolicy(ctx)
	if err != nil {
		return time.Time{}, schedule.CutoffPolicy{}, err
	}
	deliveryDate, err := schedule.NextDeliveryDate(identity.DeliveryDays, policy, s.now())
	if err != nil {
		var dayErr *schedule.InvalidDeliveryDayError
		switch {
		case errors.Is(err, schedule.ErrNoDeliveryDate):
			return time.Time{}, schedule.CutoffPolicy{}, ErrSchedulingUnavailable
		case errors.As(err, &dayErr):
			return time.Time{}, schedule.CutoffPolicy{}, ErrSchedulingUnavailable
		default:
			return time.Time{}, schedule.CutoffPolicy{}, err
		}
	}
	return deliveryDate, policy, nil
}

func (s *orderService) orderDeadline(deliveryDate string, policy schedule.CutoffPolicy) (time.Time, error) {
	parsed, err := time.ParseInLocation(deliveryDateLayout, deliveryDate, s.now().Location())
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Deadline(parsed, policy)
}

func (s *orderService) detail(ctx context.Context, order *repository.Order) (*OrderDetail, error) {
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

// notifyAccount looks up the order's account to find its webhook endpoint.
// Used by the sweep, which has no identity in hand.
func (s *orderService) notifyAccount(ctx context.Context, order *repository.Order, kind string) {
	if s.events == nil || s.accounts == nil {
		return
	}
	account, err := s.accounts.FindByID(ctx, order.AccountID)
	if err != nil {
		s.logger.Warn("webhook account lookup failed", "account_id", order.AccountID, "error", err)
		return
	}
	s.publish(account.WebhookURL, kind, order)
}

func (s *orderService) publish(webhookURL, kind string, order *repository.Order) {
	if s.events == nil || webhookURL == "" {
		return
	}
	event := notifier.OrderEvent{
		Kind:       kind,
		Reference:  order.Reference,
		Status:     string(order.Status),
		OccurredAt: s.now().Unix(),
	}
	if order.DeliveryDate != nil {
		event.DeliveryDate = *order.DeliveryDate
	}
	s.events.Enqueue(notifier.WebhookRequest{URL: webhookURL, Event: event})
}

func newOrderView(order *repository.Order) OrderView {
	view := OrderView{
		ID:         order.ID,
		Reference:  order.Reference,
		Status:     string(order.Status),
		Note:       order.Note,
		TotalCents: order.TotalCents,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if order.DeliveryDate != nil {
		view.DeliveryDate = *order.DeliveryDate
	}
	return view
}
