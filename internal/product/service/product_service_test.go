package service

import (
	"context"
	"errors"
	"testing"

	pDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	pRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	"github.com/ridloal/supermarket-management/internal/product/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalog() []pDomain.Product {
	return []pDomain.Product{
		{ID: "1", Name: "Whole Milk", Category: "Dairy", Price: 2.49, Stock: 40, ReorderLevel: 10, Supplier: "Fresh Farms"},
		{ID: "2", Name: "Bread", Category: "Bakery", Price: 3.99, Stock: 5, ReorderLevel: 8, Supplier: "Golden Oven"},
		{ID: "3", Name: "Cheddar", Category: "Dairy", Price: 5.25, Stock: 0, ReorderLevel: 4, Supplier: "Fresh Farms"},
		{ID: "4", Name: "Apples", Category: "Produce", Price: 1.20, Stock: 120, ReorderLevel: 30, Supplier: "Orchard Co"},
	}
}

func ids(ps []pDomain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful create", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		mockRepo.On("CreateProduct", ctx, mock.MatchedBy(func(p *pDomain.Product) bool {
			return p.Name == "Yogurt" && p.Price == 1.5
		})).Return(nil).Once()

		p, err := svc.CreateProduct(ctx, pDomain.ProductInput{Name: " Yogurt ", Category: "Dairy", Price: 1.5, Stock: 12, ReorderLevel: 3})

		require.NoError(t, err)
		assert.Equal(t, "mock-product-id", p.ID)
		assert.Equal(t, "Yogurt", p.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid input never reaches the repository", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)

		_, err := svc.CreateProduct(ctx, pDomain.ProductInput{Name: "", Price: 1})

		assert.ErrorIs(t, err, pDomain.ErrInvalidProduct)
		mockRepo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful update keeps id", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		existing := catalog()[1]
		mockRepo.On("GetProductByID", ctx, "2").Return(&existing, nil).Once()
		mockRepo.On("UpdateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Once()

		p, err := svc.UpdateProduct(ctx, "2", pDomain.ProductInput{Name: "Sourdough", Category: "Bakery", Price: 4.5, Stock: 20, ReorderLevel: 8})

		require.NoError(t, err)
		assert.Equal(t, "2", p.ID)
		assert.Equal(t, "Sourdough", p.Name)
		assert.Equal(t, 20, p.Stock)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Product not found", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		svc := NewProductService(mockRepo)
		mockRepo.On("GetProductByID", ctx, "99").Return(nil, pRepo.ErrProductNotFound).Once()

		_, err := svc.UpdateProduct(ctx, "99", pDomain.ProductInput{Name: "Ghost"})

		assert.ErrorIs(t, err, pRepo.ErrProductNotFound)
		mockRepo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockProductRepository)
	svc := NewProductService(mockRepo)
	mockRepo.On("DeleteProduct", ctx, "99").Return(pRepo.ErrProductNotFound).Once()

	assert.ErrorIs(t, svc.DeleteProduct(ctx, "99"), pRepo.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchProducts(t *testing.T) {
	ctx := context.TODO()
	svc := NewProductService(pRepo.NewMemoryProductRepository(catalog()))

	tests := []struct {
		name    string
		filters pDomain.ProductFilters
		want    []string
	}{
		{"No filters keeps listing order", pDomain.ProductFilters{}, []string{"1", "2", "3", "4"}},
		{"Search by name is case-insensitive", pDomain.ProductFilters{Search: "CHED"}, []string{"3"}},
		{"Search matches id", pDomain.ProductFilters{Search: "4"}, []string{"4"}},
		{"Category filter", pDomain.ProductFilters{Category: "Dairy"}, []string{"1", "3"}},
		{"All means no filter", pDomain.ProductFilters{Category: pDomain.FilterAll, Supplier: pDomain.FilterAll}, []string{"1", "2", "3", "4"}},
		{"Supplier filter", pDomain.ProductFilters{Supplier: "Fresh Farms"}, []string{"1", "3"}},
		{"Low stock includes out of stock", pDomain.ProductFilters{StockStatus: "low"}, []string{"2", "3"}},
		{"Out of stock only", pDomain.ProductFilters{StockStatus: "outOfStock"}, []string{"3"}},
		{"Sort by price", pDomain.ProductFilters{SortBy: "price"}, []string{"4", "1", "2", "3"}},
		{"Sort by stock descending", pDomain.ProductFilters{SortBy: "stock", SortDesc: true}, []string{"4", "1", "2", "3"}},
		{"Sort by name", pDomain.ProductFilters{SortBy: "name"}, []string{"4", "2", "3", "1"}},
		{"Combined filters", pDomain.ProductFilters{Category: "Dairy", StockStatus: "low"}, []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SearchProducts(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestProductService_Distinct(t *testing.T) {
	ctx := context.TODO()
	svc := NewProductService(pRepo.NewMemoryProductRepository(catalog()))

	cats, err := svc.ProductCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dairy", "Bakery", "Produce"}, cats)

	sups, err := svc.ProductSuppliers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh Farms", "Golden Oven", "Orchard Co"}, sups)

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(mocks.MockProductRepository)
		mockRepo.On("ListProducts", ctx).Return(nil, errors.New("db error")).Once()
		_, err := NewProductService(mockRepo).ProductCategories(ctx)
		assert.Error(t, err)
	})
}
