package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

// ProductInput carries the admin create/update payload for a product.
type ProductInput struct {
	CategoryID  int64
	SKU         string
	Name        string
	Description string
	Unit        string
	PriceCents  int64
	InStock     bool
	Visible     bool
	Sort        int64
}

// CategoryInput carries the admin create/update payload for a category.
type CategoryInput struct {
	Name    string
	Sort    int64
	Visible bool
}

// AdminCatalogService is the employee-facing catalog management surface.
type AdminCatalogService interface {
	Categories(ctx context.Context) ([]*repository.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*repository.Category, error)
	UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*repository.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	SortCategories(ctx context.Context, ids []int64) error

	Products(ctx context.Context, filter repository.ProductFilter) ([]*repository.Product, int64, error)
	Product(ctx context.Context, id int64) (*repository.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*repository.Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) (*repository.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type adminCatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	sanitizer  *bluemonday.Policy
	now        func() time.Time
}

// NewAdminCatalogService builds the catalog manager. Product descriptions
// accept rich text from the back office, so they pass through a UGC
// sanitizer before hitting storage.
func NewAdminCatalogService(categories repository.CategoryRepository, products repository.ProductRepository) AdminCatalogService {
	return &adminCatalogService{
		categories: categories,
		products:   products,
		sanitizer:  bluemonday.UGCPolicy(),
		now:        time.Now,
	}
}

func (s *adminCatalogService) Categories(ctx context.Context) ([]*repository.Category, error) {
	return s.categories.List(ctx, false)
}

func (s *adminCatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*repository.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	now := s.now().Unix()
	category := &repository.Category{
		Name:      name,
		Sort:      input.Sort,
		Visible:   input.Visible,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.categories.Create(ctx, category)
}

func (s *adminCatalogService) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*repository.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	category.Name = name
	category.Sort = input.Sort
	category.Visible = input.Visible
	category.UpdatedAt = s.now().Unix()
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *adminCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	filter := repository.ProductFilter{CategoryID: &id}
	count, err := s.products.Count(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInvalidInput
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *adminCatalogService) SortCategories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return ErrInvalidInput
	}
	return s.categories.Sort(ctx, ids, s.now().Unix())
}

func (s *adminCatalogService) Products(ctx context.Context, filter repository.ProductFilter) ([]*repository.Product, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	products, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *adminCatalogService) Product(ctx context.Context, id int64) (*repository.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *adminCatalogService) CreateProduct(ctx context.Context, input ProductInput) (*repository.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}
	if existing, err := s.products.FindBySKU(ctx, input.SKU); err == nil && existing != nil {
		return nil, ErrInvalidInput
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now().Unix()
	product := &repository.Product{
		CategoryID:  input.CategoryID,
		SKU:         strings.TrimSpace(input.SKU),
		Name:        strings.TrimSpace(input.Name),
		Description: s.sanitizer.Sanitize(input.Description),
		Unit:        strings.TrimSpace(input.Unit),
		PriceCents:  input.PriceCents,
		InStock:     input.InStock,
		Visible:     input.Visible,
		Sort:        input.Sort,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.products.Create(ctx, product)
}

func (s *adminCatalogService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*repository.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if existing, err := s.products.FindBySKU(ctx, input.SKU); err == nil && existing.ID != id {
		return nil, ErrInvalidInput
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.SKU = strings.TrimSpace(input.SKU)
	product.Name = strings.TrimSpace(input.Name)
	product.Description = s.sanitizer.Sanitize(input.Description)
	product.Unit = strings.TrimSpace(input.Unit)
	product.PriceCents = input.PriceCents
	product.InStock = input.InStock
	product.Visible = input.Visible
	product.Sort = input.Sort
	product.UpdatedAt = s.now().Unix()
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *adminCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *adminCatalogService) validateProductInput(ctx context.Context, input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.SKU) == "" {
		return ErrInvalidInput
	}
	if input.PriceCents < 0 {
		return ErrInvalidInput
	}
	if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidInput
		}
		return err
	}
	return nil
}
