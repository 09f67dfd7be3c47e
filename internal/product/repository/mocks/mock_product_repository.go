package mocks

import (
	"context"

	pDomain "github.com/ridloal/supermarket-management/internal/product/domain"

	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]pDomain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id string) (*pDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *pDomain.Product) error {
	args := m.Called(ctx, product)
	if product != nil && args.Error(0) == nil && product.ID == "" {
		product.ID = "mock-product-id"
	}
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product *pDomain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, lines []pDomain.StockDecrement) ([]pDomain.Product, error) {
	args := m.Called(ctx, lines)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
