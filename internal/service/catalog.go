package service

import (
	"context"
	"errors"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

// CategoryView is the client-facing category shape.
type CategoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Sort int64  `json:"sort"`
}

// ProductView is the client-facing product shape.
type ProductView struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	PriceCents  int64  `json:"price_cents"`
	InStock     bool   `json:"in_stock"`
}

// ProductPage is one page of search results.
type ProductPage struct {
	Products []ProductView `json:"products"`
	Total    int64         `json:"total"`
}

// CatalogService serves the browsing surface clients see: visible categories
// and visible products only.
type CatalogService interface {
	Categories(ctx context.Context) ([]CategoryView, error)
	Products(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error)
	Product(ctx context.Context, id int64) (*ProductView, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCatalogService builds the client catalog reader.
func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository) CatalogService {
	return &catalogService{categories: categories, products: products}
}

func (s *catalogService) Categories(ctx context.Context) ([]CategoryView, error) {
	categories, err := s.categories.List(ctx, true)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, CategoryView{ID: category.ID, Name: category.Name, Sort: category.Sort})
	}
	return views, nil
}

func (s *catalogService) Products(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error) {
	filter.VisibleOnly = true
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	products, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}
	return &ProductPage{Products: views, Total: total}, nil
}

func (s *catalogService) Product(ctx context.Context, id int64) (*ProductView, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.Visible {
		return nil, ErrNotFound
	}
	view := newProductView(product)
	return &view, nil
}

func newProductView(product *repository.Product) ProductView {
	return ProductView{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		Unit:        product.Unit,
		PriceCents:  product.PriceCents,
		InStock:     product.InStock,
	}
}
