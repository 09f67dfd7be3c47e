package mocks

import (
	"context"

	"github.com/ridloal/supermarket-management/internal/sale/domain"
	"github.com/stretchr/testify/mock"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}
