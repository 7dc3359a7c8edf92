package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type stubCategoryRepo struct {
	categories map[int64]*repository.Category
	nextID     int64
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[int64]*repository.Category)}
}

func (r *stubCategoryRepo) List(_ context.Context, visibleOnly bool) ([]*repository.Category, error) {
	var out []*repository.Category
	for _, category := range r.categories {
		if visibleOnly && !category.Visible {
			continue
		}
		out = append(out, category)
	}
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*repository.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return category, nil
}

func (r *stubCategoryRepo) Create(_ context.Context, category *repository.Category) (*repository.Category, error) {
	r.nextID++
	category.ID = r.nextID
	r.categories[category.ID] = category
	return category, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, category *repository.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) Sort(_ context.Context, ids []int64, updatedAt int64) error {
	for position, id := range ids {
		if category, ok := r.categories[id]; ok {
			category.Sort = int64(position + 1)
			category.UpdatedAt = updatedAt
		}
	}
	return nil
}

type stubProductRepo struct {
	products map[int64]*repository.Product
	nextID   int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[int64]*repository.Product)}
}

func (r *stubProductRepo) Search(_ context.Context, filter repository.ProductFilter) ([]*repository.Product, error) {
	var out []*repository.Product
	for _, product := range r.products {
		if filter.CategoryID != nil && product.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.VisibleOnly && !product.Visible {
			continue
		}
		out = append(out, product)
	}
	return out, nil
}

func (r *stubProductRepo) Count(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	products, _ := r.Search(ctx, filter)
	return int64(len(products)), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*repository.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*repository.Product, error) {
	for _, product := range r.products {
		if strings.EqualFold(product.SKU, sku) {
			return product, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []int64) ([]*repository.Product, error) {
	var out []*repository.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Create(_ context.Context, product *repository.Product) (*repository.Product, error) {
	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = product
	return product, nil
}

func (r *stubProductRepo) Update(_ context.Context, product *repository.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func newCatalogFixture(t *testing.T) (AdminCatalogService, *stubCategoryRepo, *stubProductRepo) {
	t.Helper()
	categories := newStubCategoryRepo()
	products := newStubProductRepo()
	svc := NewAdminCatalogService(categories, products).(*adminCatalogService)
	svc.now = func() time.Time { return time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC) }
	return svc, categories, products
}

func TestCreateProductSanitizesDescription(t *testing.T) {
	svc, categories, _ := newCatalogFixture(t)
	category, err := categories.Create(context.Background(), &repository.Category{Name: "Dairy", Visible: true})
	require.NoError(t, err)

	product, err := svc.CreateProduct(context.Background(), ProductInput{
		CategoryID:  category.ID,
		SKU:         "MILK-1L",
		Name:        "Whole Milk 1L",
		Description: `<p>Fresh <strong>whole</strong> milk</p><script>alert("x")</script><img src=x onerror=alert(1)>`,
		Unit:        "bottle",
		PriceCents:  129,
		InStock:     true,
		Visible:     true,
	})
	require.NoError(t, err)

	assert.Contains(t, product.Description, "<strong>whole</strong>")
	assert.NotContains(t, product.Description, "<script>")
	assert.NotContains(t, product.Description, "onerror")
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc, categories, _ := newCatalogFixture(t)
	category, err := categories.Create(context.Background(), &repository.Category{Name: "Dairy", Visible: true})
	require.NoError(t, err)

	input := ProductInput{CategoryID: category.ID, SKU: "MILK-1L", Name: "Whole Milk 1L", Visible: true}
	_, err = svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)

	input.Name = "Another Milk"
	_, err = svc.CreateProduct(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		CategoryID: 99, SKU: "MILK-1L", Name: "Whole Milk 1L",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteCategoryWithProductsBlocked(t *testing.T) {
	svc, categories, products := newCatalogFixture(t)
	category, err := categories.Create(context.Background(), &repository.Category{Name: "Dairy", Visible: true})
	require.NoError(t, err)
	_, err = products.Create(context.Background(), &repository.Product{CategoryID: category.ID, SKU: "MILK-1L", Name: "Milk"})
	require.NoError(t, err)

	err = svc.DeleteCategory(context.Background(), category.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, products.Delete(context.Background(), 1))
	assert.NoError(t, svc.DeleteCategory(context.Background(), category.ID))
}
