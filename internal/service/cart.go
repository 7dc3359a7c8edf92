package service

import (
	"context"
	"errors"
	"time"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

// CartLine joins a cart item with its current product view.
type CartLine struct {
	Product   ProductView `json:"product"`
	Quantity  int64       `json:"quantity"`
	LineTotal int64       `json:"line_total_cents"`
}

// CartView is the client's cart with a computed total.
type CartView struct {
	Lines      []CartLine `json:"lines"`
	TotalCents int64      `json:"total_cents"`
}

// CartService manages the per-client persistent cart.
type CartService interface {
	Get(ctx context.Context, accountID int64) (*CartView, error)
	Put(ctx context.Context, accountID, productID, quantity int64) error
	Remove(ctx context.Context, accountID, productID int64) error
	Clear(ctx context.Context, accountID int64) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewCartService builds the cart manager.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products, now: time.Now}
}

// Get returns the cart joined with live product data. Lines whose product
// vanished or became invisible are dropped from the view, not the store;
// checkout is where unavailable lines become a hard error.
func (s *cartService) Get(ctx context.Context, accountID int64) (*CartView, error) {
	items, err := s.carts.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Lines: make([]CartLine, 0, len(items))}
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
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

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || !product.Visible {
			continue
		}
		line := CartLine{
			Product:   newProductView(product),
			Quantity:  item.Quantity,
			LineTotal: product.PriceCents * item.Quantity,
		}
		view.Lines = append(view.Lines, line)
		view.TotalCents += line.LineTotal
	}
	return view, nil
}

// Put sets the quantity for a product line; zero removes it.
func (s *cartService) Put(ctx context.Context, accountID, productID, quantity int64) error {
	if quantity < 0 {
		return ErrInvalidInput
	}
	if quantity == 0 {
		if err := s.carts.Remove(ctx, accountID, productID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return nil
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductUnavailable
		}
		return err
	}
	if !product.Visible || !product.InStock {
		return ErrProductUnavailable
	}

	return s.carts.Upsert(ctx, &repository.CartItem{
		AccountID: accountID,
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: s.now().Unix(),
	})
}

func (s *cartService) Remove(ctx context.Context, accountID, productID int64) error {
	if err := s.carts.Remove(ctx, accountID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, accountID int64) error {
	return s.carts.Clear(ctx, accountID)
}
